package mail

import (
	"context"
	"fmt"
	"time"

	"waves-events/internal/domain/model"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 2 * time.Second
)

// Service sends the notification emails of the platform. Transient
// transport failures are retried a bounded number of times with fixed
// backoff; after that the send is abandoned.
type Service struct {
	sender   Sender
	from     string
	attempts int
	backoff  time.Duration
}

// NewService creates a mail service over the given transport
func NewService(sender Sender, from string) *Service {
	return &Service{
		sender:   sender,
		from:     from,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// SendRegistrationEmail notifies a user of a committed registration
func (s *Service) SendRegistrationEmail(ctx context.Context, ev *model.Event, userEmail string) error {
	return s.send(ctx, []string{userEmail}, KindRegistered, ev)
}

// SendCancellationEmail notifies a user of a committed cancellation
func (s *Service) SendCancellationEmail(ctx context.Context, ev *model.Event, userEmail string) error {
	return s.send(ctx, []string{userEmail}, KindRegistrationCancelled, ev)
}

// SendEventUpdatedEmail notifies all registered users of an update
func (s *Service) SendEventUpdatedEmail(ctx context.Context, ev *model.Event, userEmails []string) error {
	return s.send(ctx, userEmails, KindEventUpdated, ev)
}

// SendEventDeletedEmail notifies all registered users of a deletion
func (s *Service) SendEventDeletedEmail(ctx context.Context, ev *model.Event, userEmails []string) error {
	return s.send(ctx, userEmails, KindEventDeleted, ev)
}

func (s *Service) send(ctx context.Context, to []string, kind EmailKind, ev *model.Event) error {
	if len(to) == 0 {
		return nil
	}

	subject := Subject(kind, ev)
	body := HTMLBody(kind, ev)

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		messageID, err := s.sender.Send(ctx, to, subject, body)
		if err == nil && messageID != "" {
			return nil
		}
		if err == nil {
			err = fmt.Errorf("mail provider returned no message id")
		}
		lastErr = err
	}
	return fmt.Errorf("mail send gave up after %d attempts: %w", s.attempts, lastErr)
}
