package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mcardenas/inventory-backend/internal/api/handlers"
	"github.com/mcardenas/inventory-backend/internal/api/httpx"
	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/config"
	"github.com/mcardenas/inventory-backend/internal/metrics"
	"github.com/mcardenas/inventory-backend/internal/middleware"
	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/search"
	"github.com/mcardenas/inventory-backend/internal/services"
)

type RouterDeps struct {
	Cfg   config.Config
	Users *services.UserService
	Items *services.ItemService
	Logs  *services.AuditService
	TM    *auth.TokenManager
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.Users, d.TM)
	am := middleware.NewAuthMiddleware(d.TM)

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/validate", authH.Validate)
		r.Post("/auth/refresh", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(am.Auth)

			// ---------- users ----------
			r.Get("/users/profile", func(w http.ResponseWriter, r *http.Request) {
				u := middleware.FromCtx(r.Context())
				user, err := d.Users.Profile(r.Context(), u.UserID)
				if err != nil {
					httpx.WriteError(w, http.StatusNotFound, "not_found", "user not found", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, user)
			})

			r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
				users, err := d.Users.Search(r.Context(), searchParams(r))
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error retrieving users", nil)
					return
				}
				if users == nil {
					users = []models.User{}
				}
				httpx.WriteJSON(w, http.StatusOK, users)
			})

			r.With(middleware.RequireRole("admin")).Put("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
				var fields map[string]any
				if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
					return
				}
				actor := middleware.FromCtx(r.Context())
				user, err := d.Users.Update(r.Context(), actor.UserID, chi.URLParam(r, "id"), fields)
				if err != nil {
					writeUpdateErr(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, user)
			})

			// ---------- items ----------
			r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
				var in models.Item
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
					return
				}
				actor := middleware.FromCtx(r.Context())
				item, err := d.Items.Register(r.Context(), actor.UserID, in)
				if err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
					return
				}
				httpx.WriteJSON(w, http.StatusCreated, item)
			})

			r.Put("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
				var fields map[string]any
				if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
					return
				}
				actor := middleware.FromCtx(r.Context())
				item, err := d.Items.Update(r.Context(), actor.UserID, chi.URLParam(r, "id"), fields)
				if err != nil {
					writeUpdateErr(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, item)
			})

			r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
				item, err := d.Items.Get(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httpx.WriteError(w, http.StatusNotFound, "not_found", "id not found", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, item)
			})

			r.Get("/items", func(w http.ResponseWriter, r *http.Request) {
				items, err := d.Items.Search(r.Context(), searchParams(r))
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error while searching items", nil)
					return
				}
				if items == nil {
					items = []models.Item{}
				}
				httpx.WriteJSON(w, http.StatusOK, items)
			})

			// ---------- activity log ----------
			r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
				recs, err := d.Logs.List(r.Context())
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error in retrieving logs", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, map[string]any{
					"count": len(recs),
					"logs":  recs,
				})
			})

			r.Get("/logs/activity", func(w http.ResponseWriter, r *http.Request) {
				lines, err := d.Logs.Activity(r.Context(), searchParams(r))
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error in retrieving log", nil)
					return
				}
				if lines == nil {
					lines = []string{}
				}
				httpx.WriteJSON(w, http.StatusOK, map[string]any{"logs": lines})
			})
		})
	})

	return r
}

func searchParams(r *http.Request) search.Params {
	q := r.URL.Query()
	return search.Params{
		Query:  q.Get("query"),
		Filter: q.Get("filter"),
		Active: q.Get("active"),
	}
}

func writeUpdateErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "id not found", nil)
	case errors.Is(err, services.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "username_taken", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	}
}
