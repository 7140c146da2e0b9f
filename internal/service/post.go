package service

import (
	"context"
	"log/slog"

	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/ports"
)

// PostServiceOptions groups dependencies for PostService.
type PostServiceOptions struct {
	Posts  ports.PostRepository // Required: post storage
	Logger *slog.Logger         // Optional: structured logger
}

// PostService provides business logic for posts. Only administrators create
// and modify posts; ownership checks happen in the transport layer's guard,
// while cross-record rules (slug and title uniqueness) live in storage.
type PostService struct {
	posts  ports.PostRepository
	logger *slog.Logger
}

// NewPostService constructs a new PostService.
func NewPostService(opts PostServiceOptions) *PostService {
	if opts.Posts == nil {
		panic("post service requires a post repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{posts: opts.Posts, logger: logger.With("component", "post_service")}
}

// Create validates and inserts a post, deriving its slug from the title.
func (s *PostService) Create(ctx context.Context, ownerID string, req model.CreatePostRequest) (model.Post, error) {
	if ownerID == "" {
		return model.Post{}, apperrors.MissingField("owner_id")
	}
	if err := req.Validate(); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.Create(ctx, model.Post{
		OwnerID:  ownerID,
		Title:    req.Title,
		Slug:     model.Slugify(req.Title),
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if err != nil {
		return model.Post{}, err
	}

	s.logger.InfoContext(ctx, "post created", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

// Get returns one post by id.
func (s *PostService) Get(ctx context.Context, id string) (model.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// GetBySlug returns one post by its URL slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (model.Post, error) {
	return s.posts.FindBySlug(ctx, slug)
}

// Update validates and applies a partial update.
func (s *PostService) Update(ctx context.Context, id string, req model.UpdatePostRequest) (model.Post, error) {
	if err := req.Validate(); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.Update(ctx, id, req)
	if err != nil {
		return model.Post{}, err
	}

	s.logger.InfoContext(ctx, "post updated", "post_id", id)
	return post, nil
}

// Delete removes a post and its comments.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}

// PostListResult is one page of posts plus the unfiltered total.
type PostListResult struct {
	Posts []model.Post `json:"posts"`
	Total int64        `json:"total"`
}

// List returns a filtered page of posts.
func (s *PostService) List(ctx context.Context, opts model.PostsListOptions) (PostListResult, error) {
	posts, err := s.posts.List(ctx, opts)
	if err != nil {
		return PostListResult{}, err
	}
	total, err := s.posts.Count(ctx)
	if err != nil {
		return PostListResult{}, err
	}
	return PostListResult{Posts: posts, Total: total}, nil
}
