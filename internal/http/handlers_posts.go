package httpx

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill-api/internal/domain/model"
	"github.com/quillworks/quill-api/internal/service"
)

// PostHandlers contains the HTTP handlers for post resources. Reading is
// public; writing requires an administrator, and edits additionally require
// ownership of the post.
type PostHandlers struct {
	Svc *service.PostService
}

// Create handles POST /api/posts (administrators only, enforced in routing).
func (h *PostHandlers) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreatePostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.Svc.Create(r.Context(), claims.SubjectID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

// List handles GET /api/posts with optional q, category, and owner filters.
func (h *PostHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 10, 100)
	result, err := h.Svc.List(r.Context(), model.PostsListOptions{
		Limit:    limit,
		Offset:   offset,
		Q:        optionalQuery(r, "q"),
		Category: optionalQuery(r, "category"),
		OwnerID:  optionalQuery(r, "owner_id"),
		Dir:      r.URL.Query().Get("dir"),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/posts/{id}.
func (h *PostHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// GetBySlug handles GET /api/posts/slug/{slug}.
func (h *PostHandlers) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.Svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// Update handles PUT /api/posts/{id}. The caller must be an administrator
// (routing) and the author of the post.
func (h *PostHandlers) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwnership(w, r)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Svc.Update(r.Context(), post.ID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/posts/{id}. Same ownership rule as Update.
func (h *PostHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwnership(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), post.ID); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// requireOwnership loads the post and checks that the caller authored it.
// On failure the error response is already written.
func (h *PostHandlers) requireOwnership(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return model.Post{}, false
	}

	post, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return model.Post{}, false
	}
	if post.OwnerID != claims.SubjectID {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "forbidden",
			Err:     errors.New("you can only modify your own posts"),
		})
		return model.Post{}, false
	}
	return post, true
}
