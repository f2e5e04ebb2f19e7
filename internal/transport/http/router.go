// Package httptransport is the thin HTTP layer over the registries. It is the
// operation surface of the ledger logic, not a form-originating application:
// handlers decode input, delegate, and translate errors.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formledger/internal/admin"
	"formledger/internal/approval"
	"formledger/internal/platform/middleware"
	id "formledger/pkg/domain"
)

// AdminService is the admin registry surface the transport depends on.
type AdminService interface {
	Initialize(ctx context.Context, caller id.Address) error
	AddAdmin(ctx context.Context, caller, newAdmin id.Address) error
	RemoveAdmin(ctx context.Context, caller, target id.Address) error
	IsAdmin(ctx context.Context, addr id.Address) (bool, error)
	Registry(ctx context.Context) (*admin.Config, error)
}

// ApprovalService is the approval registry surface the transport depends on.
type ApprovalService interface {
	Sign(ctx context.Context, caller id.Address, docID id.DocumentID, hash id.FormHash, metadata id.Metadata) (*approval.Approval, error)
	UpdateMetadata(ctx context.Context, caller id.Address, docID id.DocumentID, metadata id.Metadata) (*approval.Approval, error)
	Verify(ctx context.Context, docID id.DocumentID, expected id.FormHash) (bool, error)
	Details(ctx context.Context, docID id.DocumentID) (*approval.Approval, error)
}

// Handler delegates to the registry services without embedding business logic
// so transport concerns remain isolated.
type Handler struct {
	admins    AdminService
	approvals ApprovalService
	validator middleware.SignerValidator
	logger    *slog.Logger
}

func NewHandler(admins AdminService, approvals ApprovalService, validator middleware.SignerValidator, logger *slog.Logger) *Handler {
	return &Handler{
		admins:    admins,
		approvals: approvals,
		validator: validator,
		logger:    logger,
	}
}

// NewRouter wires all endpoints. Reads are open to anyone; mutations require
// a verified signer token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public reads: external verifiers need no credential.
	r.Get("/approvals/{form_id}", h.handleApprovalDetails)
	r.Post("/approvals/{form_id}/verify", h.handleVerifyApproval)
	r.Get("/admin/admins/{address}", h.handleIsAdmin)

	// Mutations: caller identity comes from the verified token, never the body.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSigner(h.validator, h.logger))
		r.Post("/admin/config", h.handleInitialize)
		r.Post("/admin/admins", h.handleAddAdmin)
		r.Delete("/admin/admins/{address}", h.handleRemoveAdmin)
		r.Post("/approvals", h.handleSignForm)
		r.Patch("/approvals/{form_id}", h.handleUpdateApproval)
	})

	return r
}
