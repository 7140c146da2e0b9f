package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/mocks"
	"github.com/quillworks/quill-api/internal/service"
)

func newPostHandlers(t *testing.T) (*PostHandlers, *mocks.MockPostRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockPostRepository(ctrl)
	svc := service.NewPostService(service.PostServiceOptions{Posts: repo})
	return &PostHandlers{Svc: svc}, repo
}

func TestPostCreate(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, p model.Post) (model.Post, error) {
			p.ID = "post-1"
			return p, nil
		})

	body, _ := json.Marshal(model.CreatePostRequest{
		Title:   "Getting Started With Quill",
		Content: "A long enough body of content.",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var got model.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "admin-1", got.OwnerID)
	assert.Equal(t, "getting-started-with-quill", got.Slug)
}

func TestPostCreate_ValidationError(t *testing.T) {
	h, _ := newPostHandlers(t)

	body, _ := json.Marshal(model.CreatePostRequest{Title: "hi", Content: "short"})
	r := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostGetBySlug(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		FindBySlug(gomock.Any(), "getting-started").
		Return(model.Post{ID: "post-1", Slug: "getting-started"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/posts/slug/getting-started", nil)
	r.SetPathValue("slug", "getting-started")
	w := httptest.NewRecorder()
	h.GetBySlug(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostGetByID_NotFound(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		FindByID(gomock.Any(), "missing").
		Return(model.Post{}, apperrors.NotFound("post not found"))

	r := httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	h.GetByID(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostUpdate_NonAuthorForbidden(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		FindByID(gomock.Any(), "post-1").
		Return(model.Post{ID: "post-1", OwnerID: "admin-2"}, nil)

	title := "A Revised Title"
	body, _ := json.Marshal(model.UpdatePostRequest{Title: &title})
	r := httptest.NewRequest(http.MethodPut, "/api/posts/post-1", bytes.NewReader(body))
	r.SetPathValue("id", "post-1")
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Update(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostUpdate_AuthorSucceeds(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		FindByID(gomock.Any(), "post-1").
		Return(model.Post{ID: "post-1", OwnerID: "admin-1"}, nil)
	repo.EXPECT().
		Update(gomock.Any(), "post-1", gomock.Any()).
		Return(model.Post{ID: "post-1", OwnerID: "admin-1", Title: "A Revised Title"}, nil)

	title := "A Revised Title"
	body, _ := json.Marshal(model.UpdatePostRequest{Title: &title})
	r := httptest.NewRequest(http.MethodPut, "/api/posts/post-1", bytes.NewReader(body))
	r.SetPathValue("id", "post-1")
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Update(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostDelete_AuthorSucceeds(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		FindByID(gomock.Any(), "post-1").
		Return(model.Post{ID: "post-1", OwnerID: "admin-1"}, nil)
	repo.EXPECT().Delete(gomock.Any(), "post-1").Return(nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/posts/post-1", nil)
	r.SetPathValue("id", "post-1")
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Delete(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostList_PassesFilters(t *testing.T) {
	h, repo := newPostHandlers(t)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts model.PostsListOptions) ([]model.Post, error) {
			require.NotNil(t, opts.Category)
			assert.Equal(t, "golang", *opts.Category)
			require.NotNil(t, opts.Q)
			assert.Equal(t, "intro", *opts.Q)
			assert.Equal(t, 5, opts.Limit)
			return []model.Post{{ID: "post-1"}}, nil
		})
	repo.EXPECT().Count(gomock.Any()).Return(int64(1), nil)

	r := httptest.NewRequest(http.MethodGet, "/api/posts?category=golang&q=intro&limit=5", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got service.PostListResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, int64(1), got.Total)
}
