package notify

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"

	"github.com/pmartell/datenight/backend/internal/domain"
)

// ResendSender sends email through the Resend API. It implements Sender.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender constructs a ResendSender with the given API key.
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// Send delivers one message and returns Resend's message ID.
// A response without an ID counts as a failure so the notifier retries it.
func (s *ResendSender) Send(ctx context.Context, msg domain.EmailMessage) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", err
	}
	if sent == nil || sent.Id == "" {
		return "", errors.New("resend: empty response id")
	}
	return sent.Id, nil
}
