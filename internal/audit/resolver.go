// Package audit writes and renders the append-only activity ledger.
//
// The resolver snapshots "who did what to which entity" as plain text at
// write time. Audit writes are best-effort: every failure mode is reported
// as an Outcome (and logged and counted) instead of an error, so the primary
// operation being audited is never blocked by its own trail.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcardenas/inventory-backend/internal/metrics"
	"github.com/mcardenas/inventory-backend/internal/models"
)

// Kind names the entity category an audited action targets.
type Kind string

const (
	KindUser Kind = "user"
	KindItem Kind = "item"
)

// Outcome reports what happened to a single audit write attempt.
type Outcome string

const (
	OutcomeWritten        Outcome = "written"
	OutcomeActorNotFound  Outcome = "actor_not_found"
	OutcomeTargetNotFound Outcome = "target_not_found"
	OutcomeUnknownKind    Outcome = "unknown_kind"
	OutcomeStoreError     Outcome = "store_error"
)

// ActorFunc resolves the acting user.
type ActorFunc func(ctx context.Context, id string) (models.User, error)

// LookupFunc resolves a target entity of one kind to its display text.
type LookupFunc func(ctx context.Context, id string) (string, error)

// Store is the append-only sink for resolved records.
type Store interface {
	Append(ctx context.Context, rec models.AuditRecord) error
}

// Resolver turns (actor, action, kind, target) into denormalized audit
// records. New kinds register a lookup; the resolution logic is shared.
type Resolver struct {
	actor ActorFunc
	kinds map[Kind]LookupFunc
	store Store
	log   *slog.Logger

	newID func() string
	now   func() time.Time
}

func NewResolver(actor ActorFunc, store Store, log *slog.Logger) *Resolver {
	return &Resolver{
		actor: actor,
		kinds: map[Kind]LookupFunc{},
		store: store,
		log:   log,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// RegisterKind installs the lookup used for targets of kind k. Not safe for
// concurrent use with Record; register everything at wiring time.
func (r *Resolver) RegisterKind(k Kind, fn LookupFunc) {
	r.kinds[k] = fn
}

// Record resolves the actor and target, then appends one record. It never
// returns an error: the outcome says whether and why the write was skipped.
func (r *Resolver) Record(ctx context.Context, actorID, action string, kind Kind, targetID string) Outcome {
	actor, err := r.actor(ctx, actorID)
	if err != nil {
		r.log.Warn("audit: actor not found", "actor_id", actorID, "action", action)
		return r.done(OutcomeActorNotFound)
	}

	lookup, ok := r.kinds[kind]
	if !ok {
		r.log.Warn("audit: unknown kind", "kind", string(kind), "action", action)
		return r.done(OutcomeUnknownKind)
	}
	display, err := lookup(ctx, targetID)
	if err != nil {
		r.log.Warn("audit: target not found", "kind", string(kind), "target_id", targetID)
		return r.done(OutcomeTargetNotFound)
	}

	rec := models.AuditRecord{
		ID:        r.newID(),
		Name:      actor.DisplayName(),
		Action:    action,
		Reference: models.TextReference(display + " (" + strings.ToUpper(string(kind)) + ")"),
		Timestamp: r.now(),
	}
	if err := r.store.Append(ctx, rec); err != nil {
		r.log.Error("audit: append failed", "err", err, "action", action)
		return r.done(OutcomeStoreError)
	}
	return r.done(OutcomeWritten)
}

// RecordControl is the legacy entry point keyed by an external control number
// instead of an actor snapshot. Its reference is a structured payload, which
// the renderer flattens on display.
func (r *Resolver) RecordControl(ctx context.Context, controlNumber, name, action, performedBy, description string) Outcome {
	payload, err := json.Marshal(map[string]string{
		"performedBy": performedBy,
		"description": description,
	})
	if err != nil {
		r.log.Error("audit: encode control payload", "err", err)
		return r.done(OutcomeStoreError)
	}

	rec := models.AuditRecord{
		ID:            r.newID(),
		Name:          name,
		Action:        action,
		Reference:     models.LegacyReference(payload),
		ControlNumber: &controlNumber,
		Timestamp:     r.now(),
	}
	if err := r.store.Append(ctx, rec); err != nil {
		r.log.Error("audit: append failed", "err", err, "action", action)
		return r.done(OutcomeStoreError)
	}
	return r.done(OutcomeWritten)
}

func (r *Resolver) done(o Outcome) Outcome {
	metrics.AuditWrites.WithLabelValues(string(o)).Inc()
	return o
}
