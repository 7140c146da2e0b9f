package ports

// Package ports defines interfaces (hexagonal ports) for storage and external
// providers. Implementations live in internal/data and internal/adapters;
// orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/quillworks/quill-api/internal/domain/model"
)

//go:generate mockgen -source=repositories.go -destination=../mocks/repositories_mock.go -package=mocks

// AccountRepository persists and queries accounts.
type AccountRepository interface {
	// Create inserts a new account and returns it with generated fields set.
	Create(ctx context.Context, account model.Account) (model.Account, error)

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, id string) (model.Account, error)

	// FindByAddress returns the account with the given contact address.
	FindByAddress(ctx context.Context, address string) (model.Account, error)

	// Update applies the non-nil fields of req to the account and returns the
	// updated row.
	Update(ctx context.Context, id string, req model.UpdateAccountRequest) (model.Account, error)

	// Delete removes the account.
	Delete(ctx context.Context, id string) error

	// List returns a page of accounts, newest first unless opts say otherwise.
	List(ctx context.Context, opts model.AccountsListOptions) ([]model.Account, error)

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int64, error)

	// CountCreatedSince returns how many accounts were created at or after the
	// given instant.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// PostRepository persists and queries posts.
type PostRepository interface {
	Create(ctx context.Context, post model.Post) (model.Post, error)
	FindByID(ctx context.Context, id string) (model.Post, error)
	FindBySlug(ctx context.Context, slug string) (model.Post, error)
	Update(ctx context.Context, id string, req model.UpdatePostRequest) (model.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts model.PostsListOptions) ([]model.Post, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// CommentRepository persists and queries comments.
type CommentRepository interface {
	Create(ctx context.Context, comment model.Comment) (model.Comment, error)
	FindByID(ctx context.Context, id string) (model.Comment, error)
	Update(ctx context.Context, id string, content string) (model.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	List(ctx context.Context, opts model.CommentsListOptions) ([]model.Comment, error)
	ToggleLike(ctx context.Context, id, accountID string) (model.Comment, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
