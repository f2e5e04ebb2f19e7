package approval

import (
	"context"
	"crypto/sha256"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"formledger/internal/admin"
	"formledger/internal/ledger"
	id "formledger/pkg/domain"
	"formledger/pkg/platform/audit"
	"formledger/pkg/platform/audit/publisher"
	auditmem "formledger/pkg/platform/audit/store/memory"
	"formledger/pkg/requestcontext"
)

func addr(seed byte) id.Address {
	var a id.Address
	a[31] = seed
	return a
}

func hashOf(content string) id.FormHash {
	return id.FormHash(sha256.Sum256([]byte(content)))
}

type ApprovalServiceSuite struct {
	suite.Suite
	store     *ledger.MemoryStore
	events    *auditmem.InMemoryStore
	admins    *admin.Service
	service   *Service
	authority id.Address
	signer    id.Address
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	ctx := context.Background()
	s.store = ledger.NewMemoryStore()
	s.events = auditmem.NewInMemoryStore()
	pub, err := publisher.New(s.events)
	s.Require().NoError(err)

	s.admins, err = admin.New(s.store)
	s.Require().NoError(err)
	s.authority = addr(1)
	s.signer = addr(2)
	s.Require().NoError(s.admins.Initialize(ctx, s.authority))
	s.Require().NoError(s.admins.AddAdmin(ctx, s.authority, s.signer))

	s.service, err = New(s.store, s.admins, WithAuditPublisher(pub))
	s.Require().NoError(err)
}

func (s *ApprovalServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.admins)
		s.Error(err)
		s.Contains(err.Error(), "ledger store is required")
	})

	s.Run("nil admin checker returns error", func() {
		_, err := New(s.store, nil)
		s.Error(err)
		s.Contains(err.Error(), "admin checker is required")
	})
}

func (s *ApprovalServiceSuite) TestSign() {
	ctx := context.Background()

	s.Run("creates record with signer and timestamp", func() {
		at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
		signCtx := requestcontext.WithTime(ctx, at)

		record, err := s.service.Sign(signCtx, s.signer, "form-1", hashOf("hello"), "v1")
		s.Require().NoError(err)
		s.Equal(id.DocumentID("form-1"), record.DocumentID)
		s.Equal(hashOf("hello"), record.DocumentHash)
		s.Equal(s.signer, record.Signer)
		s.Equal(at.Unix(), record.ApprovedAt)
		s.Equal(id.Metadata("v1"), record.Metadata)
	})

	s.Run("second approval fails regardless of caller", func() {
		_, err := s.service.Sign(ctx, s.signer, "form-1", hashOf("hello"), "")
		s.Require().ErrorIs(err, ErrFormAlreadyApproved)

		_, err = s.service.Sign(ctx, s.authority, "form-1", hashOf("other"), "")
		s.Require().ErrorIs(err, ErrFormAlreadyApproved)
	})

	s.Run("non-admin rejected", func() {
		_, err := s.service.Sign(ctx, addr(9), "form-2", hashOf("hello"), "")
		s.Require().ErrorIs(err, admin.ErrUnauthorizedAdmin)
	})

	s.Run("64 byte id accepted, 65 rejected", func() {
		longest := id.DocumentID(strings.Repeat("a", 64))
		_, err := s.service.Sign(ctx, s.signer, longest, hashOf("hello"), "")
		s.Require().NoError(err)

		_, err = s.service.Sign(ctx, s.signer, id.DocumentID(strings.Repeat("a", 65)), hashOf("hello"), "")
		s.Require().ErrorIs(err, id.ErrDocumentIDTooLong)
	})

	s.Run("all-zero hash rejected", func() {
		_, err := s.service.Sign(ctx, s.signer, "form-3", id.FormHash{}, "")
		s.Require().ErrorIs(err, id.ErrInvalidFormHash)
	})

	s.Run("oversized metadata rejected", func() {
		meta := id.Metadata(strings.Repeat("m", 257))
		_, err := s.service.Sign(ctx, s.signer, "form-4", hashOf("hello"), meta)
		s.Require().ErrorIs(err, id.ErrMetadataTooLong)

		_, detailsErr := s.service.Details(ctx, "form-4")
		s.Require().ErrorIs(detailsErr, ErrApprovalNotFound, "rejected sign must not persist")
	})

	s.Run("metadata defaults to empty", func() {
		record, err := s.service.Sign(ctx, s.signer, "form-5", hashOf("hello"), "")
		s.Require().NoError(err)
		s.Equal(id.Metadata(""), record.Metadata)
	})
}

func (s *ApprovalServiceSuite) TestUpdateMetadata() {
	ctx := context.Background()
	_, err := s.service.Sign(ctx, s.signer, "form-1", hashOf("hello"), "v1")
	s.Require().NoError(err)

	s.Run("only original signer may update", func() {
		_, err := s.service.UpdateMetadata(ctx, s.authority, "form-1", "v2")
		s.Require().ErrorIs(err, admin.ErrUnauthorizedAdmin)

		record, err := s.service.Details(ctx, "form-1")
		s.Require().NoError(err)
		s.Equal(id.Metadata("v1"), record.Metadata, "failed update must leave metadata unchanged")
	})

	s.Run("signer updates metadata, core fields untouched", func() {
		record, err := s.service.UpdateMetadata(ctx, s.signer, "form-1", "v2")
		s.Require().NoError(err)
		s.Equal(id.Metadata("v2"), record.Metadata)
		s.Equal(hashOf("hello"), record.DocumentHash)
		s.Equal(s.signer, record.Signer)
		s.Equal(id.DocumentID("form-1"), record.DocumentID)
	})

	s.Run("oversized metadata rejected", func() {
		_, err := s.service.UpdateMetadata(ctx, s.signer, "form-1", id.Metadata(strings.Repeat("m", 257)))
		s.Require().ErrorIs(err, id.ErrMetadataTooLong)
	})

	s.Run("absent record rejected", func() {
		_, err := s.service.UpdateMetadata(ctx, s.signer, "missing", "v2")
		s.Require().ErrorIs(err, ErrApprovalNotFound)
	})
}

func (s *ApprovalServiceSuite) TestVerify() {
	ctx := context.Background()
	_, err := s.service.Sign(ctx, s.signer, "form-1", hashOf("hello"), "")
	s.Require().NoError(err)

	s.Run("matching hash verifies", func() {
		valid, err := s.service.Verify(ctx, "form-1", hashOf("hello"))
		s.Require().NoError(err)
		s.True(valid)
	})

	s.Run("different hash does not verify", func() {
		valid, err := s.service.Verify(ctx, "form-1", hashOf("world"))
		s.Require().NoError(err)
		s.False(valid)
	})

	s.Run("single bit flip does not verify", func() {
		tampered := hashOf("hello")
		tampered[0] ^= 1
		valid, err := s.service.Verify(ctx, "form-1", tampered)
		s.Require().NoError(err)
		s.False(valid)
	})

	s.Run("absent record is an error, not false", func() {
		_, err := s.service.Verify(ctx, "missing", hashOf("hello"))
		s.Require().ErrorIs(err, ErrApprovalNotFound)
	})
}

func (s *ApprovalServiceSuite) TestDetails() {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	_, err := s.service.Sign(requestcontext.WithTime(ctx, at), s.signer, "form-1", hashOf("hello"), "v1")
	s.Require().NoError(err)

	record, err := s.service.Details(ctx, "form-1")
	s.Require().NoError(err)
	s.Equal(id.DocumentID("form-1"), record.DocumentID)
	s.Equal(hashOf("hello"), record.DocumentHash)
	s.Equal(s.signer, record.Signer)
	s.Equal(at.Unix(), record.ApprovedAt)
	s.Equal(id.Metadata("v1"), record.Metadata)

	_, err = s.service.Details(ctx, "missing")
	s.Require().ErrorIs(err, ErrApprovalNotFound)
}

// TestApprovalLifecycle runs the end-to-end scenario: authority initializes,
// adds an admin, the admin approves a form, updates its metadata, and any
// party verifies the stored digest.
func (s *ApprovalServiceSuite) TestApprovalLifecycle() {
	ctx := context.Background()

	record, err := s.service.Sign(ctx, s.signer, "f1", hashOf("hello"), "v1")
	s.Require().NoError(err)
	s.Equal(s.signer, record.Signer)
	s.Equal(id.Metadata("v1"), record.Metadata)

	record, err = s.service.UpdateMetadata(ctx, s.signer, "f1", "v2")
	s.Require().NoError(err)
	s.Equal(id.Metadata("v2"), record.Metadata)

	valid, err := s.service.Verify(ctx, "f1", hashOf("hello"))
	s.Require().NoError(err)
	s.True(valid)

	valid, err = s.service.Verify(ctx, "f1", hashOf("world"))
	s.Require().NoError(err)
	s.False(valid)

	var actions []audit.Action
	for _, e := range s.events.List() {
		actions = append(actions, e.Action)
	}
	s.Equal([]audit.Action{audit.ActionFormApproved, audit.ActionApprovalUpdated}, actions,
		"reads must not emit audit events")
}
