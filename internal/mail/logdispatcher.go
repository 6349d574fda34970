package mail

import (
	"context"

	"slimmom.org/internal/obs"
)

var _ Dispatcher = (*LogDispatcher)(nil)

// LogDispatcher writes messages to the service log instead of sending them.
// Meant for local development without an SMTP server; never use it in
// production since verification codes end up in plain logs.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher { return &LogDispatcher{} }

func (d *LogDispatcher) SendOTP(ctx context.Context, to, code string) error {
	obs.LogEvent("mail.otp", map[string]any{"to": to, "code": code})
	return nil
}

func (d *LogDispatcher) SendWelcome(ctx context.Context, to, name string) error {
	obs.LogEvent("mail.welcome", map[string]any{"to": to, "name": name})
	return nil
}
