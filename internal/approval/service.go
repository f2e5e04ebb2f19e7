// Package approval owns the one-record-per-document approval registry. A
// record is created once by an authorized admin and never deleted; only its
// metadata may change afterwards, and only by the original signer.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formledger/internal/admin"
	"formledger/internal/approval/metrics"
	"formledger/internal/ledger"
	id "formledger/pkg/domain"
	dErrors "formledger/pkg/domain-errors"
	"formledger/pkg/platform/audit"
	"formledger/pkg/platform/sentinel"
	"formledger/pkg/requestcontext"
)

// AdminChecker is the authorization seam into the admin registry.
type AdminChecker interface {
	IsAdmin(ctx context.Context, addr id.Address) (bool, error)
}

// AuditPublisher emits audit events for registry mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service executes approval registry operations against the ledger store.
// Mutations consult the admin registry; reads are open to anyone.
type Service struct {
	store   ledger.Store
	admins  AdminChecker
	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store ledger.Store, admins AdminChecker, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admin checker is required")
	}
	s := &Service{store: store, admins: admins}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign creates the approval record for a document. One shot: a second call for
// the same document id fails no matter who makes it, because the derived
// address is already occupied.
//
// Validation order matches the record's creation preconditions: document id
// bound, hash non-zero, caller authorization, metadata bound, then the atomic
// create.
func (s *Service) Sign(ctx context.Context, caller id.Address, docID id.DocumentID, hash id.FormHash, metadata id.Metadata) (*Approval, error) {
	if len(docID) == 0 {
		return nil, id.ErrDocumentIDEmpty
	}
	if len(docID) > id.MaxDocumentIDLength {
		return nil, id.ErrDocumentIDTooLong
	}
	if hash.IsZero() {
		return nil, id.ErrInvalidFormHash
	}

	isAdmin, err := s.admins.IsAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, admin.ErrUnauthorizedAdmin
	}

	if len(metadata) > id.MaxMetadataLength {
		return nil, id.ErrMetadataTooLong
	}

	record := &Approval{
		DocumentID:   docID,
		DocumentHash: hash,
		Signer:       caller,
		ApprovedAt:   requestcontext.Now(ctx).Unix(),
		Metadata:     metadata,
	}
	payload, err := encodeApproval(record)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create approval record")
	}

	if err := s.store.Create(ctx, ledger.ApprovalAddress(docID), payload); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, ErrFormAlreadyApproved
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create approval record")
	}

	event := audit.NewEvent(audit.CategoryCompliance, audit.ActionFormApproved, caller)
	event.DocumentID = docID.String()
	if err := s.emit(ctx, event); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.FormsApproved.Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "form approved",
			"document_id", docID.String(),
			"signer", caller.String(),
			"approved_at", record.ApprovedAt,
		)
	}
	return record, nil
}

// UpdateMetadata overwrites the record's metadata. Restricted to the original
// signer; every other field is untouched.
func (s *Service) UpdateMetadata(ctx context.Context, caller id.Address, docID id.DocumentID, metadata id.Metadata) (*Approval, error) {
	record, err := s.load(ctx, docID)
	if err != nil {
		return nil, err
	}
	if record.Signer != caller {
		return nil, admin.ErrUnauthorizedAdmin
	}
	if len(metadata) > id.MaxMetadataLength {
		return nil, id.ErrMetadataTooLong
	}

	record.Metadata = metadata
	payload, err := encodeApproval(record)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update approval record")
	}
	if err := s.store.Put(ctx, ledger.ApprovalAddress(docID), payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update approval record")
	}

	event := audit.NewEvent(audit.CategoryCompliance, audit.ActionApprovalUpdated, caller)
	event.DocumentID = docID.String()
	if err := s.emit(ctx, event); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.MetadataUpdates.Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "approval metadata updated",
			"document_id", docID.String(),
			"signer", caller.String(),
		)
	}
	return record, nil
}

// Verify reports whether the stored digest for a document matches the
// expected one. Pure read; a document that was never approved is an error,
// not a false.
func (s *Service) Verify(ctx context.Context, docID id.DocumentID, expected id.FormHash) (bool, error) {
	record, err := s.load(ctx, docID)
	if err != nil {
		return false, err
	}
	valid := record.DocumentHash.Equal(expected)
	if s.metrics != nil {
		s.metrics.RecordVerification(valid)
	}
	return valid, nil
}

// Details returns the full record unchanged from storage. Pure read.
func (s *Service) Details(ctx context.Context, docID id.DocumentID) (*Approval, error) {
	return s.load(ctx, docID)
}

func (s *Service) load(ctx context.Context, docID id.DocumentID) (*Approval, error) {
	payload, err := s.store.Get(ctx, ledger.ApprovalAddress(docID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrApprovalNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load approval record")
	}
	record, err := decodeApproval(payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load approval record")
	}
	return record, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
