// Package notification sends transactional email for order lifecycle events.
package notification

import "context"

// Mailer sends a single email message
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
