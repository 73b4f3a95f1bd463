package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/url"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// EmailService formats the finished chronicle for the newsroom and, when a
// Gmail client is configured, sends it directly. Without a client it still
// produces a mailto link so the editor can hand off to their own mailer.
type EmailService struct {
	Gmail *gmail.Service
}

// NewEmailService constructs the service. A nil Gmail client is fine: direct
// sending is then disabled and only mailto handoff remains.
func NewEmailService(gmailSvc *gmail.Service) *EmailService {
	return &EmailService{Gmail: gmailSvc}
}

// CanSend reports whether direct Gmail delivery is available.
func (s *EmailService) CanSend() bool {
	return s.Gmail != nil
}

// BuildSubject renders the antenna email subject line.
func (s *EmailService) BuildSubject(territorySummary, date string) string {
	return fmt.Sprintf("CHRONIQUE EMPLOI - SECTEUR %s - %s",
		strings.ToUpper(territorySummary), date)
}

// BuildBody renders the two-block chronicle body.
func (s *EmailService) BuildBody(run models.AutomationRun, territorySummary string) string {
	var sb strings.Builder
	divider := "------------------------------------------\n"

	sb.WriteString(fmt.Sprintf("Bonjour,\n\nVoici les chroniques prêtes pour l'antenne sur le secteur : %s.\n\n", territorySummary))
	sb.WriteString(divider)
	sb.WriteString("🎧 CHRONIQUE 1 : EMPLOI SERVICES (1m30)\n")
	sb.WriteString(divider)
	sb.WriteString("\n" + run.ScriptServices + "\n\n\n")
	sb.WriteString(divider)
	sb.WriteString("🏭 CHRONIQUE 2 : EMPLOI INDUSTRIE (1m30)\n")
	sb.WriteString(divider)
	sb.WriteString("\n" + run.ScriptIndustrie + "\n\n")
	sb.WriteString(divider)
	sb.WriteString("Cordialement,\nL'Automate Chroniques Emploi")

	return sb.String()
}

// BuildMailto constructs the mail-client handoff link for the chronicle.
func (s *EmailService) BuildMailto(recipient string, run models.AutomationRun, territorySummary string) string {
	subject := url.QueryEscape(s.BuildSubject(territorySummary, run.Date))
	body := url.QueryEscape(s.BuildBody(run, territorySummary))
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", recipient, subject, body)
}

// Send delivers the chronicle through the Gmail API.
func (s *EmailService) Send(ctx context.Context, recipient string, run models.AutomationRun, territorySummary string) error {
	if s.Gmail == nil {
		return fmt.Errorf("gmail delivery not configured")
	}

	subject := mime.QEncoding.Encode("utf-8", s.BuildSubject(territorySummary, run.Date))
	body := s.BuildBody(run, territorySummary)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	raw := base64.URLEncoding.EncodeToString([]byte(msg.String()))
	_, err := s.Gmail.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}

	log.Printf("📧 Chronicle sent to %s", recipient)
	return nil
}
