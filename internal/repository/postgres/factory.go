package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/mcardenas/inventory-backend/internal/repository"
)

type Repositories struct {
	Users        repo.Users
	Items        repo.Items
	AuditRecords repo.AuditRecords
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        &usersRepo{pool},
		Items:        &itemsRepo{pool},
		AuditRecords: &auditRepo{pool},
	}
}
