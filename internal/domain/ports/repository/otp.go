package repository

import "context"

// OTPStore issues and verifies short-lived email verification codes.
type OTPStore interface {
	// Issue generates a code for the address, enforcing a resend cooldown.
	Issue(ctx context.Context, email string) (string, error)
	// Verify checks the code, counting attempts. After too many misses the
	// code is invalidated.
	Verify(ctx context.Context, email, code string) error
}
