package storage

import (
	"context"
	"errors"
)

// ErrHealthcheckFailed is returned when the storage probe fails.
var ErrHealthcheckFailed = errors.New("storage: healthcheck failed")

// healthcheckPrefix keeps the probe listing small.
const healthcheckPrefix = ".healthcheck/"

// Check verifies the active provider is configured and reachable.
func (s *Service) Check(ctx context.Context) error {
	p, err := s.activeProvider()
	if err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	if _, err := s.list(ctx, p, healthcheckPrefix); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

// Healthcheck returns a closure probing s for health endpoints.
func Healthcheck(s *Service) func(context.Context) error {
	return func(ctx context.Context) error {
		if s == nil {
			return ErrHealthcheckFailed
		}
		return s.Check(ctx)
	}
}
