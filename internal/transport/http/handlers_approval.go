package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formledger/internal/approval"
	id "formledger/pkg/domain"
	dErrors "formledger/pkg/domain-errors"
	"formledger/pkg/platform/httputil"
	"formledger/pkg/requestcontext"
)

type signFormRequest struct {
	DocumentID   string `json:"document_id"`
	DocumentHash string `json:"document_hash"`
	Metadata     string `json:"metadata,omitempty"`
}

type updateApprovalRequest struct {
	Metadata string `json:"metadata"`
}

type verifyApprovalRequest struct {
	DocumentHash string `json:"document_hash"`
}

type verifyApprovalResponse struct {
	DocumentID string `json:"document_id"`
	Valid      bool   `json:"valid"`
}

type approvalResponse struct {
	DocumentID   string `json:"document_id"`
	DocumentHash string `json:"document_hash"`
	Signer       string `json:"signer"`
	ApprovedAt   int64  `json:"approved_at"`
	Metadata     string `json:"metadata"`
}

func toApprovalResponse(record *approval.Approval) approvalResponse {
	return approvalResponse{
		DocumentID:   record.DocumentID.String(),
		DocumentHash: record.DocumentHash.String(),
		Signer:       record.Signer.String(),
		ApprovedAt:   record.ApprovedAt,
		Metadata:     record.Metadata.String(),
	}
}

func (h *Handler) handleSignForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Signer(ctx)

	var req signFormRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	docID, err := id.ParseDocumentID(req.DocumentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	hash, err := id.ParseFormHashHex(req.DocumentHash)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	metadata, err := id.ParseMetadata(req.Metadata)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.approvals.Sign(ctx, caller, docID, hash, metadata)
	if err != nil {
		h.writeServiceError(w, r, "sign form submission", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toApprovalResponse(record))
}

func (h *Handler) handleUpdateApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Signer(ctx)

	docID, err := id.ParseDocumentID(chi.URLParam(r, "form_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req updateApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	metadata, err := id.ParseMetadata(req.Metadata)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.approvals.UpdateMetadata(ctx, caller, docID, metadata)
	if err != nil {
		h.writeServiceError(w, r, "update form approval", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApprovalResponse(record))
}

func (h *Handler) handleVerifyApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID, err := id.ParseDocumentID(chi.URLParam(r, "form_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req verifyApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	hash, err := id.ParseFormHashHex(req.DocumentHash)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	valid, err := h.approvals.Verify(ctx, docID, hash)
	if err != nil {
		h.writeServiceError(w, r, "verify form approval", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifyApprovalResponse{
		DocumentID: docID.String(),
		Valid:      valid,
	})
}

func (h *Handler) handleApprovalDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID, err := id.ParseDocumentID(chi.URLParam(r, "form_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.approvals.Details(ctx, docID)
	if err != nil {
		h.writeServiceError(w, r, "get form approval details", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApprovalResponse(record))
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
