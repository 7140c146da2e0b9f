package httpx

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	"github.com/quillworks/quill-api/internal/service"
)

// AccountHandlers contains the HTTP handlers for account resources.
type AccountHandlers struct {
	Svc *service.AccountService
}

// List handles GET /api/accounts (administrators only, enforced in routing).
func (h *AccountHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	result, err := h.Svc.List(r.Context(), model.AccountsListOptions{
		Limit:  limit,
		Offset: offset,
		Dir:    r.URL.Query().Get("dir"),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/accounts/{id}.
func (h *AccountHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	account, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

// Update handles PUT /api/accounts/{id}. Only the account holder may change
// their own profile; administrators cannot edit other accounts through this
// route.
func (h *AccountHandlers) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok || claims.SubjectID != r.PathValue("id") {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "forbidden",
			Err:     errors.New("you can only update your own account"),
		})
		return
	}

	var req model.UpdateAccountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

// Delete handles DELETE /api/accounts/{id}. The holder may remove their own
// account; administrators may remove any account.
func (h *AccountHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	if err := auth.Allows(claims, auth.PolicySelfOrAdmin, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
