package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcardenas/inventory-backend/internal/api/httpx"
	"github.com/mcardenas/inventory-backend/internal/api/validate"
	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/middleware"
	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
	TM    *auth.TokenManager
}

func NewAuthHandler(us *services.UserService, tm *auth.TokenManager) *AuthHandler {
	return &AuthHandler{Users: us, TM: tm}
}

type registerReq struct {
	ControlNumber string `json:"control_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MiddleName    string `json:"middle_name"`
	EmployeeID    string `json:"employee_id"`
	Division      string `json:"division"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	var verrs validate.Errs
	for _, ef := range []*validate.ErrField{
		validate.Required("first_name", req.FirstName),
		validate.Required("last_name", req.LastName),
		validate.Required("username", req.Username),
		validate.MinLen("password", req.Password, 8),
	} {
		if ef != nil {
			verrs = append(verrs, *ef)
		}
	}
	if len(verrs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", verrs.Error(), verrs)
		return
	}

	actor := middleware.FromCtx(r.Context())
	u, err := h.Users.Register(r.Context(), actor.UserID, models.User{
		ControlNumber: req.ControlNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleName:    req.MiddleName,
		EmployeeID:    req.EmployeeID,
		Division:      req.Division,
		Username:      req.Username,
	}, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			httpx.WriteError(w, http.StatusConflict, "username_taken", err.Error(), nil)
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	pair, _, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

type validateReq struct {
	Token string `json:"token"`
}

// Validate reports whether a token is a currently valid access token.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]bool{"is_valid": false})
		return
	}
	_, isRefresh, err := h.TM.ParseAny(req.Token)
	if err != nil || isRefresh {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]bool{"is_valid": false})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"is_valid": true})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	claims, isRefresh, err := h.TM.ParseAny(req.RefreshToken)
	if err != nil || !isRefresh {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	pair, err := h.TM.GeneratePair(claims.UserID, claims.Username, claims.Role)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}
