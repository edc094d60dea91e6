package models

import (
	"encoding/json"
	"time"

	"github.com/mcardenas/inventory-backend/internal/search"
)

// AuditRecord is one immutable entry in the append-only activity ledger.
// Name and Reference are snapshots taken at write time, so the entry stays
// readable after the user or target is renamed or deleted.
type AuditRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Action        string    `json:"action"`
	Reference     Reference `json:"reference"`
	ControlNumber *string   `json:"control_number,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LogQueryFields are the fields free-text search over the ledger ORs across.
var LogQueryFields = []string{"name", "reference"}

// LogFilterFields restrict the secondary filter term to the action verb.
var LogFilterFields = []string{"action"}

// Reference is a tagged variant: either denormalized display text
// ("Drill (ITEM)") or a legacy structured payload carried as raw JSON.
// Exactly one of the two is set.
type Reference struct {
	Text   string
	Legacy json.RawMessage
}

func TextReference(s string) Reference { return Reference{Text: s} }

func LegacyReference(raw json.RawMessage) Reference { return Reference{Legacy: raw} }

func (r Reference) IsLegacy() bool { return r.Legacy != nil }

// MarshalJSON stores text references as a JSON string and legacy references
// as their raw payload, matching how both shapes land in the jsonb column.
func (r Reference) MarshalJSON() ([]byte, error) {
	if r.IsLegacy() {
		return r.Legacy, nil
	}
	return json.Marshal(r.Text)
}

// UnmarshalJSON recovers the variant: a JSON string is a text reference,
// anything else is a legacy payload kept verbatim.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Reference{Text: s}
		return nil
	}
	*r = Reference{Legacy: append(json.RawMessage(nil), data...)}
	return nil
}

func (a AuditRecord) SearchDocument() search.Document {
	ref := a.Reference.Text
	if a.Reference.IsLegacy() {
		ref = string(a.Reference.Legacy)
	}
	return search.Document{
		ID: a.ID,
		Fields: map[string]string{
			"name":      a.Name,
			"action":    a.Action,
			"reference": ref,
		},
	}
}
