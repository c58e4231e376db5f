package service

import (
	"context"
	"fmt"
	"time"

	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	templates config.TemplatesConfig
}

func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &sendGridEmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		templates: cfg.Templates,
	}
}

// sendTemplate delivers one dynamic-template email. SendGrid gives no
// delivery guarantee beyond the API accepting the request; callers treat
// an error as "retry on the next scan".
func (s *sendGridEmailService) sendTemplate(ctx context.Context, toEmail, templateID string, data map[string]interface{}) error {
	if templateID == "" {
		return fmt.Errorf("no template configured for this notification")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", toEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.SetTemplateID(templateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(recipient)
	for key, value := range data {
		personalization.SetDynamicTemplateData(key, value)
	}
	message.AddPersonalizations(personalization)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", "send_template", err, "template_id", templateID)
	if err != nil {
		return fmt.Errorf("failed to send template email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendRetentionReminder(ctx context.Context, toEmail string, stay domain.StayType, level int32, daysRemaining int, caseTitle string) error {
	// Short stays run on a 30-day window, long-term tenancies on a
	// 12-month one; the copy differs, so the templates do too.
	templateID := s.templates.RetentionReminderLongTerm
	if stay == domain.StayTypeShortStay {
		templateID = s.templates.RetentionReminderShortStay
	}
	return s.sendTemplate(ctx, toEmail, templateID, map[string]interface{}{
		"case_title":     caseTitle,
		"reminder_level": level,
		"days_remaining": daysRemaining,
	})
}

func (s *sendGridEmailService) SendFinalExpiryNotice(ctx context.Context, toEmail string, stay domain.StayType, caseTitle string, graceUntil time.Time) error {
	return s.sendTemplate(ctx, toEmail, s.templates.FinalExpiryNotice, map[string]interface{}{
		"case_title":  caseTitle,
		"stay_type":   string(stay),
		"grace_until": graceUntil.Format("2006-01-02"),
	})
}

func (s *sendGridEmailService) SendStorageExtensionConfirmation(ctx context.Context, toEmail, caseTitle string, years int32, retentionUntil time.Time) error {
	return s.sendTemplate(ctx, toEmail, s.templates.StorageExtensionConfirmed, map[string]interface{}{
		"case_title":      caseTitle,
		"years":           years,
		"retention_until": retentionUntil.Format("2006-01-02"),
	})
}

func (s *sendGridEmailService) SendDeadlineReminder(ctx context.Context, toEmail, deadlineTitle string, dueDate time.Time, daysBefore int32) error {
	return s.sendTemplate(ctx, toEmail, s.templates.DeadlineReminder, map[string]interface{}{
		"deadline_title": deadlineTitle,
		"due_date":       dueDate.Format("2006-01-02"),
		"days_before":    daysBefore,
	})
}
