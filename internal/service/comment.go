package service

import (
	"context"
	"log/slog"

	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/ports"
)

// CommentServiceOptions groups dependencies for CommentService.
type CommentServiceOptions struct {
	Comments ports.CommentRepository // Required: comment storage
	Posts    ports.PostRepository    // Required: existence check on create
	Logger   *slog.Logger            // Optional: structured logger
}

// CommentService provides business logic for comments and comment likes.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	logger   *slog.Logger
}

// NewCommentService constructs a new CommentService.
func NewCommentService(opts CommentServiceOptions) *CommentService {
	if opts.Comments == nil {
		panic("comment service requires a comment repository")
	}
	if opts.Posts == nil {
		panic("comment service requires a post repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentService{
		comments: opts.Comments,
		posts:    opts.Posts,
		logger:   logger.With("component", "comment_service"),
	}
}

// Create validates and inserts a comment on an existing post.
func (s *CommentService) Create(ctx context.Context, ownerID string, req model.CreateCommentRequest) (model.Comment, error) {
	if ownerID == "" {
		return model.Comment{}, apperrors.MissingField("owner_id")
	}
	if err := req.Validate(); err != nil {
		return model.Comment{}, err
	}
	if _, err := s.posts.FindByID(ctx, req.PostID); err != nil {
		return model.Comment{}, err
	}

	comment, err := s.comments.Create(ctx, model.Comment{
		PostID:  req.PostID,
		OwnerID: ownerID,
		Content: req.Content,
	})
	if err != nil {
		return model.Comment{}, err
	}

	s.logger.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", comment.PostID)
	return comment, nil
}

// Get returns one comment by id.
func (s *CommentService) Get(ctx context.Context, id string) (model.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

// Update validates and replaces a comment's content.
func (s *CommentService) Update(ctx context.Context, id string, req model.UpdateCommentRequest) (model.Comment, error) {
	if err := req.Validate(); err != nil {
		return model.Comment{}, err
	}
	return s.comments.Update(ctx, id, req.Content)
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "comment deleted", "comment_id", id)
	return nil
}

// ListByPost returns all comments on a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// CommentListResult is one page of comments plus the unfiltered total.
type CommentListResult struct {
	Comments []model.Comment `json:"comments"`
	Total    int64           `json:"total"`
}

// List returns a page of comments across all posts for moderation.
func (s *CommentService) List(ctx context.Context, opts model.CommentsListOptions) (CommentListResult, error) {
	comments, err := s.comments.List(ctx, opts)
	if err != nil {
		return CommentListResult{}, err
	}
	total, err := s.comments.Count(ctx)
	if err != nil {
		return CommentListResult{}, err
	}
	return CommentListResult{Comments: comments, Total: total}, nil
}

// ToggleLike flips the caller's like on a comment.
func (s *CommentService) ToggleLike(ctx context.Context, id, accountID string) (model.Comment, error) {
	if accountID == "" {
		return model.Comment{}, apperrors.MissingField("account_id")
	}
	return s.comments.ToggleLike(ctx, id, accountID)
}
