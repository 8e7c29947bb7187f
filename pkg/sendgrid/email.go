package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To        string
	Subject   string
	PlainText string
}

type EmailService interface {
	Send(ctx context.Context, msg *Message) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (e *emailService) Send(ctx context.Context, msg *Message) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail("", msg.To)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = msg.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", msg.PlainText))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
