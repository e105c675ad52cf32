package usecase

import "github.com/rs/zerolog"

// bestEffort runs a side effect whose failure must not fail the caller.
// The error is logged and dropped.
func bestEffort(log *zerolog.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("best-effort side effect failed")
	}
}
