// Package mail delivers transactional messages for account verification.
// The auth orchestrator only depends on the Dispatcher capability; the SMTP
// implementation is constructed once at process start and injected.
package mail

import "context"

// Dispatcher sends account mail. A returned error means the message was not
// accepted for delivery; callers decide whether to degrade or recover.
type Dispatcher interface {
	SendOTP(ctx context.Context, to, code string) error
	SendWelcome(ctx context.Context, to, name string) error
}
