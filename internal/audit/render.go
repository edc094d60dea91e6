package audit

import (
	"strings"

	"github.com/mcardenas/inventory-backend/internal/models"
)

// Render formats one record as a single activity line:
// "<name> <action> <reference> on MM/DD/YYYY". It is a pure function of the
// record and never fails; any reference shape degrades to readable text.
func Render(rec models.AuditRecord) string {
	return rec.Name + " " + rec.Action + " " + flatten(rec.Reference) + " on " + rec.Timestamp.Format("01/02/2006")
}

// flatten renders a reference to display text. Text references are used
// verbatim. Legacy structured payloads have no schema, so they are stripped
// down: escaped quotes, braces and remaining quotes removed, then trimmed.
func flatten(ref models.Reference) string {
	if !ref.IsLegacy() {
		return ref.Text
	}
	s := string(ref.Legacy)
	s = strings.ReplaceAll(s, `\"`, "")
	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}
