package mail

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wallie-app/backend/internal/models"
)

// Mailer sends transactional email
type Mailer interface {
	SendActivationEmail(user *models.User, activationURL string) error
}

// SendGridMailer implements Mailer on top of the SendGrid API
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
}

// NewSendGridMailer creates a SendGridMailer sending from the given address
func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

// SendActivationEmail sends the account confirmation link to a new user
func (m *SendGridMailer) SendActivationEmail(user *models.User, activationURL string) error {
	from := mail.NewEmail("Wallie", m.from)
	to := mail.NewEmail(user.FirstName, user.Email)
	subject := "Confirm your account on Wallie"
	plain := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address to complete registration:\n%s\n",
		user.FirstName, activationURL,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please confirm your email address to complete registration:</p><p><a href=%q>Activate your account</a></p>",
		user.FirstName, activationURL,
	)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer logs activation links instead of sending them. Used in
// development when no SendGrid key is configured.
type LogMailer struct{}

// SendActivationEmail logs the activation link for the user
func (LogMailer) SendActivationEmail(user *models.User, activationURL string) error {
	log.Printf("activation link for %s: %s", user.Email, activationURL)
	return nil
}
