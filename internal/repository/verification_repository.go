package repository

import (
	"context"
	"time"
)

// VerificationCodeRepository stores short-lived email verification codes.
type VerificationCodeRepository interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns domain.ErrInvalidCode when no code is stored for the email.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
