package service

import (
	"context"

	nuts "github.com/vaudience/go-nuts"
)

// Notifier delivers password reset tokens to account owners.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogNotifier records that a reset was requested without delivering the token.
type LogNotifier struct{}

func (LogNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	nuts.L.Infof("[Notifier] Password reset requested for %s; no mail transport configured", email)
	return nil
}
