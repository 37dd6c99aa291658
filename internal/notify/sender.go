package notify

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender delivers a single email. Implementations exist for AWS SES and
// plain SMTP.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
