package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "formledger/pkg/domain"
	dErrors "formledger/pkg/domain-errors"
	"formledger/pkg/platform/httputil"
	"formledger/pkg/requestcontext"
)

type addAdminRequest struct {
	Address string `json:"address"`
}

type isAdminResponse struct {
	Address string `json:"address"`
	IsAdmin bool   `json:"is_admin"`
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Signer(ctx)

	if err := h.admins.Initialize(ctx, caller); err != nil {
		h.writeServiceError(w, r, "initialize admin config", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Signer(ctx)

	var req addAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	newAdmin, err := id.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.admins.AddAdmin(ctx, caller, newAdmin); err != nil {
		h.writeServiceError(w, r, "add admin", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Signer(ctx)

	target, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.admins.RemoveAdmin(ctx, caller, target); err != nil {
		h.writeServiceError(w, r, "remove admin", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	isAdmin, err := h.admins.IsAdmin(ctx, addr)
	if err != nil {
		h.writeServiceError(w, r, "check admin", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, isAdminResponse{
		Address: addr.String(),
		IsAdmin: isAdmin,
	})
}

// writeServiceError logs unexpected failures and hands the error envelope to
// httputil. Expected rejections pass through without noise.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), "operation failed",
			"operation", op,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
