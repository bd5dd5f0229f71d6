package server

import (
	"context"

	"github.com/vanshika/fraudscore/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies the history graph is reachable. A nil client
// means persistence is disabled and the probe always passes.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// HealthChecks runs every probe and returns the first failure.
type HealthChecks []HealthService

// Probe implements the HealthService interface.
func (c HealthChecks) Probe(ctx context.Context) error {
	for _, check := range c {
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ProbeFunc adapts a function to HealthService.
type ProbeFunc func(ctx context.Context) error

// Probe implements the HealthService interface.
func (f ProbeFunc) Probe(ctx context.Context) error {
	return f(ctx)
}
