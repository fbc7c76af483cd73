//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package mailer

import (
	"context"
	"errors"
)

const (
	ProviderNone   = "none"
	ProviderResend = "resend"
)

var ErrNotConfigured = errors.New("mail not configured")

// Result reports what happened to one message. A declined message is
// Sent=false with a nil error; errors are reserved for transport failures.
type Result struct {
	Sent     bool
	Provider string
	// Dev is set when no provider is configured and nothing left the process.
	Dev bool
}

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) (Result, error)
}

// DevMailer accepts every message without delivering it.
type DevMailer struct{}

func (DevMailer) Send(context.Context, string, string, string) (Result, error) {
	return Result{Sent: false, Provider: ProviderNone, Dev: true}, nil
}
