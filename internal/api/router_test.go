package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/config"
	"github.com/mcardenas/inventory-backend/internal/repository/memory"
	"github.com/mcardenas/inventory-backend/internal/services"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

type apiFixture struct {
	srv   *httptest.Server
	wp    *worker.Pool
	store *memory.AuditRecords
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	users := memory.NewUsers()
	items := memory.NewItems()
	store := memory.NewAuditRecords()
	wp := worker.NewPool(1)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	trail := audit.NewResolver(users.GetByID, store, log)
	trail.RegisterKind(audit.KindUser, func(ctx context.Context, id string) (string, error) {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.DisplayName(), nil
	})
	trail.RegisterKind(audit.KindItem, func(ctx context.Context, id string) (string, error) {
		i, err := items.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return i.Name, nil
	})

	tm := auth.NewTokenManager("access", "refresh", "test", time.Hour, 24*time.Hour)
	r := NewRouter(RouterDeps{
		Cfg:   config.Config{Env: "test", RateRPS: 0},
		Users: services.NewUserService(users, trail, wp, tm),
		Items: services.NewItemService(items, trail, wp),
		Logs:  services.NewAuditService(store, trail, wp),
		TM:    tm,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &apiFixture{srv: srv, wp: wp, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestEndToEndItemLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	// register and login
	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Ana", "last_name": "Cruz", "username": "acruz", "password": "s3cret-pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[map[string]any](t, resp)
	userID, _ := user["id"].(string)
	require.NotEmpty(t, userID)

	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "acruz", "password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decode[map[string]string](t, resp)
	token := pair["access_token"]
	require.NotEmpty(t, token)

	// token validation endpoint
	resp = f.do(t, http.MethodPost, "/api/v1/auth/validate", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	valid := decode[map[string]bool](t, resp)
	assert.True(t, valid["is_valid"])

	// protected routes reject anonymous callers
	resp = f.do(t, http.MethodGet, "/api/v1/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// create and search
	resp = f.do(t, http.MethodPost, "/api/v1/items", token, map[string]string{
		"control_number": "CN-1", "name": "Drill", "category": "Tools",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[map[string]any](t, resp)
	itemID, _ := item["id"].(string)
	require.NotEmpty(t, itemID)

	resp = f.do(t, http.MethodGet, "/api/v1/items?query=dri", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decode[[]map[string]any](t, resp)
	require.Len(t, found, 1)
	assert.Equal(t, "Drill", found[0]["name"])

	// metacharacters in the query term are literal, not pattern syntax
	resp = f.do(t, http.MethodGet, "/api/v1/items?query=.%2A", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))

	// update
	resp = f.do(t, http.MethodPut, "/api/v1/items/"+itemID, token, map[string]any{"location": "Annex B"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[map[string]any](t, resp)
	assert.Equal(t, "Annex B", updated["location"])

	// drain queued audit writes, then read the activity trail
	f.wp.Stop()

	resp = f.do(t, http.MethodGet, "/api/v1/logs/activity", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	activity := decode[map[string][]string](t, resp)
	lines := activity["logs"]
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Ana Cruz create Drill (ITEM) on ")
	assert.Contains(t, lines[1], "Ana Cruz update Drill (ITEM) on ")

	resp = f.do(t, http.MethodGet, "/api/v1/logs", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := decode[map[string]any](t, resp)
	assert.EqualValues(t, 2, raw["count"])
}

func TestRegisterValidation(t *testing.T) {
	f := newAPIFixture(t)
	defer f.wp.Stop()

	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Ana", "username": "acruz", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUserSearchFilterByRole(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Ana", "last_name": "Cruz", "username": "acruz", "password": "s3cret-pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "acruz", "password": "s3cret-pw",
	})
	pair := decode[map[string]string](t, resp)
	token := pair["access_token"]

	resp = f.do(t, http.MethodGet, "/api/v1/users?filter=user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]map[string]any](t, resp)
	require.Len(t, users, 1)
	assert.Equal(t, "acruz", users[0]["username"])

	resp = f.do(t, http.MethodGet, "/api/v1/users?filter=admin", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))

	f.wp.Stop()
}
