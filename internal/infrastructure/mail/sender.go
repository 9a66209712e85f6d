package mail

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Sender is the outbound mail transport. Implementations deliver one
// HTML message to a list of recipients and return the provider's
// message id.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) (string, error)
}

// SenderFunc allows functions to implement Sender
type SenderFunc func(ctx context.Context, to []string, subject, htmlBody string) (string, error)

func (f SenderFunc) Send(ctx context.Context, to []string, subject, htmlBody string) (string, error) {
	return f(ctx, to, subject, htmlBody)
}

// LogSender writes outbound mail to the process log instead of a real
// provider. Default transport for local development.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to []string, subject, _ string) (string, error) {
	messageID := uuid.New().String()
	log.Printf("mail: sending %q to %d recipient(s), message id %s", subject, len(to), messageID)
	return messageID, nil
}
