package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/radioterritoriale/chronique-emploi/internal/auth"
	"github.com/radioterritoriale/chronique-emploi/internal/config"
	"github.com/radioterritoriale/chronique-emploi/internal/handlers"
	"github.com/radioterritoriale/chronique-emploi/internal/services"
	"github.com/radioterritoriale/chronique-emploi/internal/session"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// 2. Session State
	sess := session.New(services.RunDate(time.Now()))

	// 3. Discovery & Composition
	// Without an API key the service degrades to the offline local source
	// and the composer's placeholder output.
	var source services.JobSource
	var composer services.ScriptComposer

	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiService(context.Background(), cfg)
		if err != nil {
			log.Fatal("Failed to create Gemini service:", err)
		}
		defer gemini.Close()

		source = services.NewDiscoveryService(gemini, gemini, cfg.MaxOffers, cfg.CategorizeWorkers)
		composer = services.NewScriptService(gemini)
		log.Println("✅ Gemini connected (grounded search enabled).")
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set — running on the offline local source.")
		source = services.NewLocalSourceService(cfg.MaxOffers)
		composer = services.NewScriptService(unavailableComposer{})
	}

	automationService := services.NewAutomationService(sess, source, composer)

	// 4. Optional Gmail Delivery
	var gmailService *gmail.Service
	if httpClient := auth.GetGmailClient(); httpClient != nil {
		gmailService, err = gmail.NewService(context.Background(), option.WithHTTPClient(httpClient))
		if err != nil {
			log.Printf("⚠️ Failed to create Gmail service: %v", err)
		} else {
			log.Println("✅ Gmail delivery connected.")
		}
	}
	emailService := services.NewEmailService(gmailService)
	exportService := services.NewExportService()

	// 5. Handlers
	automationHandler := handlers.NewAutomationHandler(automationService, sess)
	sessionHandler := handlers.NewSessionHandler(sess)
	exportHandler := handlers.NewExportHandler(exportService, emailService, sess)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/automation/run", automationHandler.RunAutomation)
		api.GET("/automation", automationHandler.GetRun)

		api.GET("/config", sessionHandler.ListConfig)
		api.POST("/territories", sessionHandler.AddTerritory)
		api.DELETE("/territories/:id", sessionHandler.RemoveTerritory)
		api.POST("/sources", sessionHandler.AddSource)
		api.DELETE("/sources", sessionHandler.RemoveSource)
		api.PUT("/recipient", sessionHandler.SetRecipient)

		api.GET("/export/document", exportHandler.ExportDocument)
		api.GET("/export/print", exportHandler.ExportPrint)
		api.POST("/email/send", exportHandler.SendEmail)
	}

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// unavailableComposer stands in for Gemini composition in offline mode; the
// script service maps its error to the placeholder bundle.
type unavailableComposer struct{}

func (unavailableComposer) Compose(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("script composition requires GEMINI_API_KEY")
}
