// Package audit captures who did what to the ledger and when.
//
// Registry services emit one event per committed mutation. The ledger itself is
// the proof; the audit trail exists for operators and downstream compliance
// consumers, so it rides a separate store (memory in tests, Kafka in
// production wiring).
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "formledger/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This enables
// different retention policies and topic routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers approval facts with legal significance:
	// anything that creates or alters an approval record.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers admin-set changes and rejected privileged calls.
	CategorySecurity EventCategory = "security"
)

// Action names mirror the ledger operations one to one.
type Action string

const (
	ActionConfigInitialized Action = "admin_config_initialized"
	ActionAdminAdded        Action = "admin_added"
	ActionAdminRemoved      Action = "admin_removed"
	ActionFormApproved      Action = "form_approved"
	ActionApprovalUpdated   Action = "form_approval_updated"
)

// Event is emitted from registry services after a mutation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         uuid.UUID     `json:"id"`
	Category   EventCategory `json:"category"`
	Action     Action        `json:"action"`
	Timestamp  time.Time     `json:"timestamp"`
	Actor      string        `json:"actor"`
	Subject    string        `json:"subject,omitempty"`
	DocumentID string        `json:"document_id,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
}

// NewEvent stamps an event with a fresh ID.
func NewEvent(category EventCategory, action Action, actor id.Address) Event {
	return Event{
		ID:       uuid.New(),
		Category: category,
		Action:   action,
		Actor:    actor.String(),
	}
}

// Store persists audit events. Append must be durable before it returns;
// publishers rely on that for fail-closed semantics.
type Store interface {
	Append(ctx context.Context, event Event) error
}
