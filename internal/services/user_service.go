package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mcardenas/inventory-backend/internal/audit"
	"github.com/mcardenas/inventory-backend/internal/auth"
	"github.com/mcardenas/inventory-backend/internal/models"
	repo "github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/search"
	"github.com/mcardenas/inventory-backend/internal/worker"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	users repo.Users
	trail *audit.Resolver
	wp    *worker.Pool
	tm    *auth.TokenManager
}

func NewUserService(users repo.Users, trail *audit.Resolver, wp *worker.Pool, tm *auth.TokenManager) *UserService {
	return &UserService{users: users, trail: trail, wp: wp, tm: tm}
}

func (s *UserService) Register(ctx context.Context, actorID string, in models.User, password string) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	in.PasswordHash = hash
	in.Active = true

	u, err := s.users.Create(ctx, in)
	if err != nil {
		return models.User{}, err
	}
	s.logAction(actorID, "create", u.ID)
	return u, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (auth.TokenPair, models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.TokenPair{}, models.User{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, models.User{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return auth.TokenPair{}, models.User{}, ErrInvalidCredentials
	}
	pair, err := s.tm.GeneratePair(u.ID, u.Username, u.Role)
	if err != nil {
		return auth.TokenPair{}, models.User{}, err
	}
	return pair, u, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update applies a partial update. A plaintext "password" field is hashed
// into password_hash before it reaches the repository.
func (s *UserService) Update(ctx context.Context, actorID, id string, fields map[string]any) (models.User, error) {
	if uname, ok := fields["username"].(string); ok {
		if existing, err := s.users.GetByUsername(ctx, uname); err == nil && existing.ID != id {
			return models.User{}, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return models.User{}, err
		}
	}
	if pw, ok := fields["password"].(string); ok {
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return models.User{}, err
		}
		delete(fields, "password")
		fields["password_hash"] = hash
	}

	u, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return models.User{}, err
	}
	s.logAction(actorID, "update", id)
	return u, nil
}

func (s *UserService) Search(ctx context.Context, params search.Params) ([]models.User, error) {
	p := search.Build(models.UserQueryFields, models.UserFilterFields, params)
	return s.users.Search(ctx, p)
}

func (s *UserService) logAction(actorID, action, targetID string) {
	s.wp.Submit(func() {
		s.trail.Record(context.Background(), actorID, action, audit.KindUser, targetID)
	})
}
