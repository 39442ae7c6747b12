package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEscalationAlert(query, sessionId string) error
}

type emailService struct {
	dialer       *gomail.Dialer
	senderEmail  string
	senderName   string
	supportEmail string
}

func NewEmailService(host string, port int, email, password, senderName, supportEmail string) IEmailService {
	d := gomail.NewDialer(host, port, email, password)

	return &emailService{
		dialer:       d,
		senderEmail:  email,
		senderName:   senderName,
		supportEmail: supportEmail,
	}
}

// SendEscalationAlert mails the support inbox about a question the FAQ
// database could not answer.
func (s *emailService) SendEscalationAlert(query, sessionId string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.supportEmail)
	m.SetHeader("Subject", "FAQ escalation: unanswered question")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A question needs human follow-up</h2>
			<p>The FAQ assistant could not answer the following question:</p>
			<blockquote style="border-left: 3px solid #ccc; padding-left: 10px;">%s</blockquote>
			<p>Session: %s</p>
			<p>Escalated at %s.</p>
		</div>
	`, query, sessionId, time.Now().Format(time.RFC1123))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send escalation alert: %w", err)
	}
	return nil
}

// EscalationNotifier adapts IEmailService to the scrapper agent's hook.
type EscalationNotifier struct {
	service IEmailService
}

func NewEscalationNotifier(service IEmailService) *EscalationNotifier {
	return &EscalationNotifier{service: service}
}

func (n *EscalationNotifier) NotifyEscalation(ctx context.Context, query, sessionId string) error {
	return n.service.SendEscalationAlert(query, sessionId)
}
