package httpx

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	"github.com/quillworks/quill-api/internal/service"
)

// CommentHandlers contains the HTTP handlers for comment resources.
type CommentHandlers struct {
	Svc *service.CommentService
}

// Create handles POST /api/comments (any authenticated account).
func (h *CommentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Svc.Create(r.Context(), claims.SubjectID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}

// ListByPost handles GET /api/posts/{id}/comments, newest first, public.
func (h *CommentHandlers) ListByPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Svc.ListByPost(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// List handles GET /api/comments, the cross-post moderation listing
// (administrators only, enforced in routing).
func (h *CommentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	result, err := h.Svc.List(r.Context(), model.CommentsListOptions{
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

// Update handles PUT /api/comments/{id}. Only the author or an administrator
// may edit.
func (h *CommentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeOwner(w, r) {
		return
	}

	var req model.UpdateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{id}. Same ownership rule as Update.
func (h *CommentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeOwner(w, r) {
		return
	}

	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ToggleLike handles PUT /api/comments/{id}/like for any authenticated
// account. Toggling twice returns the comment to its prior state.
func (h *CommentHandlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	comment, err := h.Svc.ToggleLike(r.Context(), r.PathValue("id"), claims.SubjectID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}

// authorizeOwner loads the comment and applies the self-or-admin rule.
// On failure the error response is already written.
func (h *CommentHandlers) authorizeOwner(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return false
	}

	comment, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return false
	}
	if err := auth.Allows(claims, auth.PolicySelfOrAdmin, comment.OwnerID); err != nil {
		WriteAppError(w, err)
		return false
	}
	return true
}
