package server

import (
	"context"
	"fmt"

	"github.com/advait/custlink/internal/sources"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// SourcesHealthService verifies connectivity to both SaaS platforms as part
// of health checks.
type SourcesHealthService struct {
	CRM      sources.CRMClient
	Payments sources.PaymentsClient
}

// Probe implements the HealthService interface.
func (s SourcesHealthService) Probe(ctx context.Context) error {
	if s.CRM != nil {
		if err := s.CRM.Ping(ctx); err != nil {
			return fmt.Errorf("crm: %w", err)
		}
	}
	if s.Payments != nil {
		if err := s.Payments.Ping(ctx); err != nil {
			return fmt.Errorf("payments: %w", err)
		}
	}
	return nil
}
