// Package services реализует отправку писем о решении по заявке
// на роль организатора.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// SenderService отправляет уведомления по e-mail.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendOrganizerDecision разбирает сообщение из очереди и отправляет письмо
// с решением по заявке.
func (s *SenderService) SendOrganizerDecision(body []byte) error {
	const op = "services.sender.SendOrganizerDecision"
	var message models.OrganizerDecision
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if message.Email == "" {
		return fmt.Errorf("%s: message has no recipient", op)
	}

	subject, text, err := decisionText(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.sendEmail([]string{message.Email}, subject, text)
}

func decisionText(m models.OrganizerDecision) (subject, text string, err error) {
	switch m.Decision {
	case models.ApprovalApproved:
		return "Your organizer request was approved",
			fmt.Sprintf("Hello, %s!\n\nYour request to become an organizer on The Social Hub was approved. "+
				"You can now create and manage events.", m.Name), nil
	case models.ApprovalRejected:
		return "Your organizer request was rejected",
			fmt.Sprintf("Hello, %s!\n\nYour request to become an organizer on The Social Hub was rejected. "+
				"You can apply again from your profile page.", m.Name), nil
	}
	return "", "", fmt.Errorf("unexpected decision %q", m.Decision)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
