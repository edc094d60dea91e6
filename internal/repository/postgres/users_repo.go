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

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, control_number, first_name, last_name, middle_name, employee_id, division, username, role, password_hash, active, created_at, updated_at`

// userSearchCols maps predicate field names to columns.
var userSearchCols = map[string]string{
	"control_number": "control_number",
	"first_name":     "first_name",
	"last_name":      "last_name",
	"middle_name":    "middle_name",
	"employee_id":    "employee_id",
	"division":       "division",
	"username":       "username",
	"role":           "role",
}

// userUpdateCols whitelists partial-update fields.
var userUpdateCols = map[string]string{
	"control_number": "control_number",
	"first_name":     "first_name",
	"last_name":      "last_name",
	"middle_name":    "middle_name",
	"employee_id":    "employee_id",
	"division":       "division",
	"username":       "username",
	"role":           "role",
	"password_hash":  "password_hash",
	"active":         "active",
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users(id, control_number, first_name, last_name, middle_name, employee_id, division, username, role, password_hash, active)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		u.ID, u.ControlNumber, u.FirstName, u.LastName, u.MiddleName, u.EmployeeID, u.Division, u.Username, u.Role, u.PasswordHash, u.Active,
	)
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username)
}

func (r *usersRepo) getOne(ctx context.Context, q string, arg any) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.ControlNumber, &u.FirstName, &u.LastName, &u.MiddleName,
		&u.EmployeeID, &u.Division, &u.Username, &u.Role, &u.PasswordHash,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repository.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) Update(ctx context.Context, id string, fields map[string]any) (models.User, error) {
	sets := []string{"updated_at=now()"}
	args := []any{id}
	for f, v := range fields {
		col, ok := userUpdateCols[f]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, col+"=$"+strconv.Itoa(len(args)))
	}
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id=$1 RETURNING ` + userCols

	var u models.User
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&u.ID, &u.ControlNumber, &u.FirstName, &u.LastName, &u.MiddleName,
		&u.EmployeeID, &u.Division, &u.Username, &u.Role, &u.PasswordHash,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repository.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) Search(ctx context.Context, p search.Predicate) ([]models.User, error) {
	where, args := whereClause(p, userSearchCols, "id")
	rows, err := r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.ControlNumber, &u.FirstName, &u.LastName, &u.MiddleName,
			&u.EmployeeID, &u.Division, &u.Username, &u.Role, &u.PasswordHash,
			&u.Active, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
