package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"

	"github.com/radioterritoriale/chronique-emploi/internal/config"
	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// GeminiService wraps the two Gemini access paths the pipeline needs: the
// genai client for grounded search and schema-constrained composition, and a
// langchaingo model for the fast per-offer categorization calls.
type GeminiService struct {
	client *genai.Client
	catLLM llms.Model
	cfg    *config.Config
}

// NewGeminiService initializes both clients from the configured API key.
func NewGeminiService(ctx context.Context, cfg *config.Config) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	catLLM, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.CategorizeModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create categorization client: %w", err)
	}

	return &GeminiService{
		client: client,
		catLLM: catLLM,
		cfg:    cfg,
	}, nil
}

// Close releases the underlying genai connection.
func (s *GeminiService) Close() error {
	return s.client.Close()
}

// Search runs a grounded web search request and returns the raw model text.
// Decoding and per-record validation belong to the caller: the response is
// semi-structured at best, even with a JSON MIME type requested.
func (s *GeminiService) Search(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	model := s.client.GenerativeModel(s.cfg.SearchModel)
	model.Tools = []*genai.Tool{
		{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("grounded search: %w", err)
	}
	return responseText(resp), nil
}

// Compose runs a structured generation request for the two script blocks.
// The response schema mirrors the three required bundle fields.
func (s *GeminiService) Compose(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	model := s.client.GenerativeModel(s.cfg.ComposeModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"services":  {Type: genai.TypeString},
			"industrie": {Type: genai.TypeString},
			"featuredIds": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"services", "industrie", "featuredIds"},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("script composition: %w", err)
	}
	return responseText(resp), nil
}

const categorizePrompt = `Analyse : "%s" chez "%s" à "%s". Réponds en JSON strict, sans bloc markdown : {"category": "Emploi – Services" ou "Emploi – Industrie", "summary": "2 lignes radio courtes"}.`

// Categorize classifies one offer and writes its two-line radio summary.
// Errors propagate to the pipeline, which substitutes the fixed fallback.
func (s *GeminiService) Categorize(ctx context.Context, title, employer, location string) (CategoryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CategorizeTimeout)
	defer cancel()

	prompt := fmt.Sprintf(categorizePrompt, title, employer, location)
	raw, err := llms.GenerateFromSinglePrompt(ctx, s.catLLM, prompt)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("categorize call: %w", err)
	}

	var decoded struct {
		Category string `json:"category"`
		Summary  string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &decoded); err != nil {
		return CategoryResult{}, fmt.Errorf("categorize decode: %w", err)
	}

	category, err := models.ParseCategory(decoded.Category)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("categorize response: %w", err)
	}
	if decoded.Summary == "" {
		return CategoryResult{}, fmt.Errorf("categorize response: empty summary")
	}

	return CategoryResult{Category: category, Summary: decoded.Summary}, nil
}

// responseText concatenates all text parts of a genai response.
func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// stripJSONFences removes a surrounding markdown code fence if the model
// wrapped its JSON despite instructions.
func stripJSONFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
