package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/mocks"
)

func newCommentService(t *testing.T) (*mocks.MockCommentRepository, *mocks.MockPostRepository, *CommentService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	comments := mocks.NewMockCommentRepository(ctrl)
	posts := mocks.NewMockPostRepository(ctrl)
	svc := NewCommentService(CommentServiceOptions{Comments: comments, Posts: posts})
	return comments, posts, svc
}

func TestCommentService_Create_Success(t *testing.T) {
	t.Parallel()
	comments, posts, svc := newCommentService(t)
	ctx := context.Background()

	posts.EXPECT().FindByID(ctx, "post-1").Return(model.Post{ID: "post-1"}, nil).Times(1)
	comments.EXPECT().
		Create(ctx, model.Comment{PostID: "post-1", OwnerID: "acct-1", Content: "nice post"}).
		Return(model.Comment{ID: "cmt-1", PostID: "post-1", OwnerID: "acct-1", Content: "nice post"}, nil).
		Times(1)

	comment, err := svc.Create(ctx, "acct-1", model.CreateCommentRequest{PostID: "post-1", Content: "nice post"})
	require.NoError(t, err)
	assert.Equal(t, "cmt-1", comment.ID)
}

func TestCommentService_Create_MissingPost(t *testing.T) {
	t.Parallel()
	_, posts, svc := newCommentService(t)
	ctx := context.Background()

	posts.EXPECT().
		FindByID(ctx, "ghost").
		Return(model.Post{}, apperrors.NotFound("post not found")).
		Times(1)

	_, err := svc.Create(ctx, "acct-1", model.CreateCommentRequest{PostID: "ghost", Content: "hello"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCommentService_Create_Validation(t *testing.T) {
	t.Parallel()
	_, _, svc := newCommentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", model.CreateCommentRequest{PostID: "post-1", Content: "hello"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, "acct-1", model.CreateCommentRequest{PostID: "post-1"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCommentService_ToggleLike(t *testing.T) {
	t.Parallel()
	comments, _, svc := newCommentService(t)
	ctx := context.Background()

	comments.EXPECT().
		ToggleLike(ctx, "cmt-1", "acct-2").
		Return(model.Comment{ID: "cmt-1", Likes: []string{"acct-2"}, LikeCount: 1}, nil).
		Times(1)

	comment, err := svc.ToggleLike(ctx, "cmt-1", "acct-2")
	require.NoError(t, err)
	assert.Equal(t, 1, comment.LikeCount)

	_, err = svc.ToggleLike(ctx, "cmt-1", "")
	assert.True(t, apperrors.IsValidation(err))
}
