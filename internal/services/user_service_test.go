package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/models"
)

func newUserService(f *fixture) *UserService {
	tm := auth.NewTokenManager("access-secret", "refresh-secret", "test", time.Hour, 24*time.Hour)
	return NewUserService(f.users, f.trail, f.wp, tm)
}

func TestUserRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	actor := f.actor(t)

	u, err := svc.Register(ctx, actor.ID, models.User{
		FirstName: "Ben", LastName: "Reyes", Username: "breyes", Division: "IT",
	}, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)
	assert.True(t, u.Active)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	pair, logged, err := svc.Login(ctx, "breyes", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, _, err = svc.Login(ctx, "breyes", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ghost", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	f.drain()
	recs, _ := f.store.FindAll(ctx)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ana Cruz", recs[0].Name)
	assert.Equal(t, "create", recs[0].Action)
	assert.Equal(t, "Ben Reyes (USER)", recs[0].Reference.Text)
}

func TestUserRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	actor := f.actor(t)

	_, err := svc.Register(ctx, actor.ID, models.User{
		FirstName: "Ben", LastName: "Reyes", Username: "breyes",
	}, "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, actor.ID, models.User{
		FirstName: "Bea", LastName: "Reyes", Username: "breyes",
	}, "pw")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	f.drain()
}

func TestUserUpdateHashesPassword(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	actor := f.actor(t)

	u, err := svc.Register(ctx, actor.ID, models.User{
		FirstName: "Ben", LastName: "Reyes", Username: "breyes",
	}, "old-pw")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, actor.ID, u.ID, map[string]any{"password": "new-pw", "division": "Audit"})
	require.NoError(t, err)
	assert.Equal(t, "Audit", updated.Division)
	assert.NoError(t, auth.VerifyPassword("new-pw", updated.PasswordHash))
	assert.Error(t, auth.VerifyPassword("old-pw", updated.PasswordHash))

	f.drain()
	recs, _ := f.store.FindAll(ctx)
	require.Len(t, recs, 2)
	assert.Equal(t, "update", recs[1].Action)
}

func TestUserUpdateRejectsTakenUsername(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	actor := f.actor(t)

	a, err := svc.Register(ctx, actor.ID, models.User{FirstName: "Ben", LastName: "Reyes", Username: "breyes"}, "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, actor.ID, models.User{FirstName: "Bea", LastName: "Santos", Username: "bsantos"}, "pw")
	require.NoError(t, err)

	_, err = svc.Update(ctx, actor.ID, a.ID, map[string]any{"username": "bsantos"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// renaming to your own username is fine
	_, err = svc.Update(ctx, actor.ID, a.ID, map[string]any{"username": "breyes"})
	assert.NoError(t, err)
	f.drain()
}
