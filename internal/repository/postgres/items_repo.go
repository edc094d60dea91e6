package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/repository"
	"github.com/mcardenas/inventory-backend/internal/search"
)

type itemsRepo struct{ pool *pgxpool.Pool }

const itemCols = `id, control_number, name, category, location, description, logged_by, active, created_at, updated_at`

var itemSearchCols = map[string]string{
	"control_number": "control_number",
	"name":           "name",
	"category":       "category",
	"location":       "location",
	"description":    "description",
	"logged_by":      "logged_by",
}

var itemUpdateCols = map[string]string{
	"control_number": "control_number",
	"name":           "name",
	"category":       "category",
	"location":       "location",
	"description":    "description",
	"logged_by":      "logged_by",
	"active":         "active",
}

func (r *itemsRepo) Create(ctx context.Context, i models.Item) (models.Item, error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO items(id, control_number, name, category, location, description, logged_by, active)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		i.ID, i.ControlNumber, i.Name, i.Category, i.Location, i.Description, i.LoggedBy, i.Active,
	)
	if err != nil {
		return models.Item{}, err
	}
	return r.GetByID(ctx, i.ID)
}

func (r *itemsRepo) GetByID(ctx context.Context, id string) (models.Item, error) {
	var i models.Item
	err := r.pool.QueryRow(ctx, `SELECT `+itemCols+` FROM items WHERE id=$1`, id).Scan(
		&i.ID, &i.ControlNumber, &i.Name, &i.Category, &i.Location,
		&i.Description, &i.LoggedBy, &i.Active, &i.CreatedAt, &i.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, repository.ErrNotFound
	}
	return i, err
}

func (r *itemsRepo) Update(ctx context.Context, id string, fields map[string]any) (models.Item, error) {
	sets := []string{"updated_at=now()"}
	args := []any{id}
	for f, v := range fields {
		col, ok := itemUpdateCols[f]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, col+"=$"+strconv.Itoa(len(args)))
	}
	q := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE id=$1 RETURNING ` + itemCols

	var i models.Item
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&i.ID, &i.ControlNumber, &i.Name, &i.Category, &i.Location,
		&i.Description, &i.LoggedBy, &i.Active, &i.CreatedAt, &i.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, repository.ErrNotFound
	}
	return i, err
}

func (r *itemsRepo) Search(ctx context.Context, p search.Predicate) ([]models.Item, error) {
	where, args := whereClause(p, itemSearchCols, "id")
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemCols+` FROM items`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(
			&i.ID, &i.ControlNumber, &i.Name, &i.Category, &i.Location,
			&i.Description, &i.LoggedBy, &i.Active, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
