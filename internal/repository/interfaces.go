package repository

import (
	"context"
	"errors"

	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/search"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// Update applies the given fields and returns the updated row.
	// Unknown fields are ignored.
	Update(ctx context.Context, id string, fields map[string]any) (models.User, error)
	Search(ctx context.Context, p search.Predicate) ([]models.User, error)
}

type Items interface {
	Create(ctx context.Context, i models.Item) (models.Item, error)
	GetByID(ctx context.Context, id string) (models.Item, error)
	Update(ctx context.Context, id string, fields map[string]any) (models.Item, error)
	Search(ctx context.Context, p search.Predicate) ([]models.Item, error)
}

// AuditRecords is append-only: no update or delete exists for the ledger.
type AuditRecords interface {
	Append(ctx context.Context, rec models.AuditRecord) error
	FindAll(ctx context.Context) ([]models.AuditRecord, error)
	FindMatching(ctx context.Context, p search.Predicate) ([]models.AuditRecord, error)
}
