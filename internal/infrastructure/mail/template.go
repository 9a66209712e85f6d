package mail

import (
	"fmt"
	"html"

	"waves-events/internal/domain/model"
)

// EmailKind selects the notification template
type EmailKind int

const (
	KindRegistered EmailKind = iota
	KindRegistrationCancelled
	KindEventUpdated
	KindEventDeleted
)

// Subject builds the subject line for the notification kind
func Subject(kind EmailKind, ev *model.Event) string {
	switch kind {
	case KindRegistered:
		return fmt.Sprintf("You're in! Registration confirmed for %s", ev.Name)
	case KindRegistrationCancelled:
		return fmt.Sprintf("Your registration for %s has been cancelled", ev.Name)
	case KindEventUpdated:
		return fmt.Sprintf("Heads up! %s has been updated", ev.Name)
	case KindEventDeleted:
		return fmt.Sprintf("Cancelled: %s is no longer taking place", ev.Name)
	default:
		return ev.Name
	}
}

// HTMLBody renders the notification body for the given event
func HTMLBody(kind EmailKind, ev *model.Event) string {
	var content string
	switch kind {
	case KindRegistered:
		content = fmt.Sprintf(
			"Your seat for <strong>%s</strong> is confirmed. It starts on %s in %s. See you there!",
			html.EscapeString(ev.Name), ev.StartDate.Format("Mon, 02 Jan 2006 15:04 MST"),
			html.EscapeString(ev.Country),
		)
	case KindRegistrationCancelled:
		content = fmt.Sprintf(
			"Your registration for <strong>%s</strong> has been cancelled. Your seat has been released.",
			html.EscapeString(ev.Name),
		)
	case KindEventUpdated:
		content = fmt.Sprintf(
			"The details of <strong>%s</strong> have changed. It now runs from %s to %s.",
			html.EscapeString(ev.Name),
			ev.StartDate.Format("Mon, 02 Jan 2006 15:04 MST"),
			ev.EndDate.Format("Mon, 02 Jan 2006 15:04 MST"),
		)
	case KindEventDeleted:
		content = fmt.Sprintf(
			"We're sorry, <strong>%s</strong> has been cancelled by the organizer.",
			html.EscapeString(ev.Name),
		)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <head><meta charset="UTF-8" /><title>%s</title></head>
  <body style="font-family: 'Work Sans', sans-serif; background-color: #010320; color: #c99fef;">
    <div style="padding: 20px; border-radius: 32px;">
      <h1 style="color: #e8e6e4;">%s</h1>
      <p>%s</p>
      <p style="font-size: 12px;">Waves Events &middot; this is an automated notification.</p>
    </div>
  </body>
</html>`, html.EscapeString(Subject(kind, ev)), html.EscapeString(Subject(kind, ev)), content)
}
