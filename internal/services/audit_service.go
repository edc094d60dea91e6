package services

import (
	"context"

	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/models"
	repo "github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/search"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

// AuditService reads the ledger. A failed read is a retrieval error to the
// caller, unlike the write path which never surfaces failures.
type AuditService struct {
	store repo.AuditRecords
	trail *audit.Resolver
	wp    *worker.Pool
}

func NewAuditService(store repo.AuditRecords, trail *audit.Resolver, wp *worker.Pool) *AuditService {
	return &AuditService{store: store, trail: trail, wp: wp}
}

func (s *AuditService) List(ctx context.Context) ([]models.AuditRecord, error) {
	return s.store.FindAll(ctx)
}

// Activity returns the rendered activity lines, optionally narrowed by the
// free-text query (name, reference) and filter (action) terms.
func (s *AuditService) Activity(ctx context.Context, params search.Params) ([]string, error) {
	p := search.Build(models.LogQueryFields, models.LogFilterFields, search.Params{
		Query:  params.Query,
		Filter: params.Filter,
	})
	recs, err := s.store.FindMatching(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, audit.Render(rec))
	}
	return out, nil
}

// LogControl is the legacy fire-and-forget entry keyed by control number.
func (s *AuditService) LogControl(controlNumber, name, action, performedBy, description string) {
	s.wp.Submit(func() {
		s.trail.RecordControl(context.Background(), controlNumber, name, action, performedBy, description)
	})
}
