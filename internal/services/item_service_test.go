package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/repository/memory"
	"github.com/mcardenas/inventory-backend/internal/search"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

type fixture struct {
	users *memory.Users
	items *memory.Items
	store *memory.AuditRecords
	trail *audit.Resolver
	wp    *worker.Pool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users: memory.NewUsers(),
		items: memory.NewItems(),
		store: memory.NewAuditRecords(),
		wp:    worker.NewPool(1),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.trail = audit.NewResolver(f.users.GetByID, f.store, log)
	f.trail.RegisterKind(audit.KindUser, func(ctx context.Context, id string) (string, error) {
		u, err := f.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.DisplayName(), nil
	})
	f.trail.RegisterKind(audit.KindItem, func(ctx context.Context, id string) (string, error) {
		i, err := f.items.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return i.Name, nil
	})
	return f
}

// drain waits for queued audit writes to land.
func (f *fixture) drain() { f.wp.Stop() }

func (f *fixture) actor(t *testing.T) models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.User{
		FirstName: "Ana", LastName: "Cruz", Username: "acruz",
	})
	require.NoError(t, err)
	return u
}

func TestItemRegisterWritesAudit(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	ctx := context.Background()
	actor := f.actor(t)

	item, err := svc.Register(ctx, actor.ID, models.Item{ControlNumber: "CN-1", Name: "Drill"})
	require.NoError(t, err)
	assert.True(t, item.Active)
	assert.NotEmpty(t, item.ID)

	f.drain()
	recs, err := f.store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ana Cruz", recs[0].Name)
	assert.Equal(t, "create", recs[0].Action)
	assert.Equal(t, "Drill (ITEM)", recs[0].Reference.Text)
}

func TestItemRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	actor := f.actor(t)

	_, err := svc.Register(context.Background(), actor.ID, models.Item{Name: "no control number"})
	assert.Error(t, err)

	f.drain()
	assert.Equal(t, 0, f.store.Len(), "failed create must not be audited")
}

func TestItemUpdateWritesAudit(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	ctx := context.Background()
	actor := f.actor(t)

	item, err := svc.Register(ctx, actor.ID, models.Item{ControlNumber: "CN-1", Name: "Drill"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, actor.ID, item.ID, map[string]any{"location": "Annex B"})
	require.NoError(t, err)
	assert.Equal(t, "Annex B", updated.Location)

	f.drain()
	recs, _ := f.store.FindAll(ctx)
	require.Len(t, recs, 2)
	assert.Equal(t, "update", recs[1].Action)
}

func TestItemUpdateMissing(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	actor := f.actor(t)

	_, err := svc.Update(context.Background(), actor.ID, "missing", map[string]any{"location": "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	f.drain()
	assert.Equal(t, 0, f.store.Len())
}

func TestItemRegisterSucceedsWhenAuditActorMissing(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	ctx := context.Background()

	// unknown actor: the write proceeds, the audit entry is silently skipped
	item, err := svc.Register(ctx, "ghost", models.Item{ControlNumber: "CN-9", Name: "Ladder"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	f.drain()
	assert.Equal(t, 0, f.store.Len())
}

func TestItemSearch(t *testing.T) {
	f := newFixture(t)
	svc := NewItemService(f.items, f.trail, f.wp)
	ctx := context.Background()
	actor := f.actor(t)

	_, err := svc.Register(ctx, actor.ID, models.Item{ControlNumber: "CN-1", Name: "Laptop", Category: "IT"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, actor.ID, models.Item{ControlNumber: "CN-2", Name: "Drill", Category: "Tools"})
	require.NoError(t, err)

	got, err := svc.Search(ctx, search.Params{Query: "lap"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0].Name)

	all, err := svc.Search(ctx, search.Params{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	f.drain()
}
