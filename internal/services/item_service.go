package services

import (
	"context"

	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/metrics"
	"github.com/mcardenas/inventory-backend/internal/models"
	repo "github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/search"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

type ItemService struct {
	items repo.Items
	trail *audit.Resolver
	wp    *worker.Pool
}

func NewItemService(items repo.Items, trail *audit.Resolver, wp *worker.Pool) *ItemService {
	return &ItemService{items: items, trail: trail, wp: wp}
}

func (s *ItemService) Register(ctx context.Context, actorID string, in models.Item) (models.Item, error) {
	if err := in.Validate(); err != nil {
		return models.Item{}, err
	}
	in.Active = true
	item, err := s.items.Create(ctx, in)
	if err != nil {
		return models.Item{}, err
	}
	metrics.ItemsRegistered.Inc()
	s.logAction(actorID, "create", item.ID)
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, actorID, id string, fields map[string]any) (models.Item, error) {
	item, err := s.items.Update(ctx, id, fields)
	if err != nil {
		return models.Item{}, err
	}
	s.logAction(actorID, "update", id)
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (models.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *ItemService) Search(ctx context.Context, params search.Params) ([]models.Item, error) {
	p := search.Build(models.ItemSearchFields, models.ItemSearchFields, params)
	return s.items.Search(ctx, p)
}

// logAction hands the audit write to the pool. The primary operation has
// already returned by the time the record lands; a failed write only shows
// up in logs and counters.
func (s *ItemService) logAction(actorID, action, targetID string) {
	s.wp.Submit(func() {
		s.trail.Record(context.Background(), actorID, action, audit.KindItem, targetID)
	})
}
