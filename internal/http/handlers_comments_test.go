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

type commentHandlerMocks struct {
	comments *mocks.MockCommentRepository
	posts    *mocks.MockPostRepository
}

func newCommentHandlers(t *testing.T) (*CommentHandlers, commentHandlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := commentHandlerMocks{
		comments: mocks.NewMockCommentRepository(ctrl),
		posts:    mocks.NewMockPostRepository(ctrl),
	}
	svc := service.NewCommentService(service.CommentServiceOptions{
		Comments: m.comments,
		Posts:    m.posts,
	})
	return &CommentHandlers{Svc: svc}, m
}

func TestCommentCreate(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.posts.EXPECT().FindByID(gomock.Any(), "post-1").Return(model.Post{ID: "post-1"}, nil)
	m.comments.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, c model.Comment) (model.Comment, error) {
			c.ID = "comment-1"
			return c, nil
		})

	body, _ := json.Marshal(model.CreateCommentRequest{PostID: "post-1", Content: "nice read"})
	r := httptest.NewRequest(http.MethodPost, "/api/comments", bytes.NewReader(body))
	r = withClaims(r, "acct-1", false)
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var got model.Comment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "acct-1", got.OwnerID)
}

func TestCommentCreate_MissingPostIs404(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.posts.EXPECT().
		FindByID(gomock.Any(), "missing").
		Return(model.Post{}, apperrors.NotFound("post not found"))

	body, _ := json.Marshal(model.CreateCommentRequest{PostID: "missing", Content: "nice read"})
	r := httptest.NewRequest(http.MethodPost, "/api/comments", bytes.NewReader(body))
	r = withClaims(r, "acct-1", false)
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentListByPost(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.comments.EXPECT().
		ListByPost(gomock.Any(), "post-1").
		Return([]model.Comment{{ID: "comment-1"}, {ID: "comment-2"}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/posts/post-1/comments", nil)
	r.SetPathValue("id", "post-1")
	w := httptest.NewRecorder()
	h.ListByPost(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestCommentUpdate_NonOwnerForbidden(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.comments.EXPECT().
		FindByID(gomock.Any(), "comment-1").
		Return(model.Comment{ID: "comment-1", OwnerID: "acct-2"}, nil)

	body, _ := json.Marshal(model.UpdateCommentRequest{Content: "edited"})
	r := httptest.NewRequest(http.MethodPut, "/api/comments/comment-1", bytes.NewReader(body))
	r.SetPathValue("id", "comment-1")
	r = withClaims(r, "acct-1", false)
	w := httptest.NewRecorder()
	h.Update(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentUpdate_AdminMayModerate(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.comments.EXPECT().
		FindByID(gomock.Any(), "comment-1").
		Return(model.Comment{ID: "comment-1", OwnerID: "acct-2"}, nil)
	m.comments.EXPECT().
		Update(gomock.Any(), "comment-1", "moderated").
		Return(model.Comment{ID: "comment-1", OwnerID: "acct-2", Content: "moderated"}, nil)

	body, _ := json.Marshal(model.UpdateCommentRequest{Content: "moderated"})
	r := httptest.NewRequest(http.MethodPut, "/api/comments/comment-1", bytes.NewReader(body))
	r.SetPathValue("id", "comment-1")
	r = withClaims(r, "admin-1", true)
	w := httptest.NewRecorder()
	h.Update(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestCommentDelete_Owner(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.comments.EXPECT().
		FindByID(gomock.Any(), "comment-1").
		Return(model.Comment{ID: "comment-1", OwnerID: "acct-1"}, nil)
	m.comments.EXPECT().Delete(gomock.Any(), "comment-1").Return(nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/comments/comment-1", nil)
	r.SetPathValue("id", "comment-1")
	r = withClaims(r, "acct-1", false)
	w := httptest.NewRecorder()
	h.Delete(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestCommentToggleLike(t *testing.T) {
	h, m := newCommentHandlers(t)

	m.comments.EXPECT().
		ToggleLike(gomock.Any(), "comment-1", "acct-1").
		Return(model.Comment{ID: "comment-1", Likes: []string{"acct-1"}, LikeCount: 1}, nil)

	r := httptest.NewRequest(http.MethodPut, "/api/comments/comment-1/like", nil)
	r.SetPathValue("id", "comment-1")
	r = withClaims(r, "acct-1", false)
	w := httptest.NewRecorder()
	h.ToggleLike(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Comment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 1, got.LikeCount)
}
