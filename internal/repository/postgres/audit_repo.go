package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcardenas/inventory-backend/internal/models"
	"github.com/mcardenas/inventory-backend/internal/search"
)

// auditRepo only ever inserts and selects. The ledger has no UPDATE or
// DELETE path anywhere in the codebase.
type auditRepo struct{ pool *pgxpool.Pool }

// The reference column is jsonb: legacy rows hold structured payloads, new
// rows hold a plain JSON string. Search casts it to text.
var auditSearchCols = map[string]string{
	"name":      "name",
	"action":    "action",
	"reference": "reference::text",
}

func (r *auditRepo) Append(ctx context.Context, rec models.AuditRecord) error {
	ref, err := json.Marshal(rec.Reference)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_records(id, name, action, reference, control_number, created_at)
		 VALUES($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.Name, rec.Action, ref, rec.ControlNumber, rec.Timestamp,
	)
	return err
}

func (r *auditRepo) FindAll(ctx context.Context) ([]models.AuditRecord, error) {
	return r.find(ctx, search.Predicate{})
}

func (r *auditRepo) FindMatching(ctx context.Context, p search.Predicate) ([]models.AuditRecord, error) {
	return r.find(ctx, p)
}

func (r *auditRepo) find(ctx context.Context, p search.Predicate) ([]models.AuditRecord, error) {
	where, args := whereClause(p, auditSearchCols, "id")
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, action, reference, control_number, created_at
		   FROM audit_records`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		var ref []byte
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Action, &ref, &rec.ControlNumber, &rec.Timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(ref, &rec.Reference); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
