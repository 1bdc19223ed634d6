package api

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// attempt runs a best-effort step. A failure is logged and returned for
// bookkeeping only; it never changes the response sent to the client.
func attempt(ctx context.Context, logger *log.Logger, step string, fn func(context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		logger.WithError(err).WithField("step", step).Error("best-effort step failed")
	}
	return err
}
