package model

import (
	"strings"
	"time"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

const maxCommentLen = 500

// Comment represents one reader comment on a post. Likes holds the account
// ids that liked the comment; LikeCount is derived from it in storage.
type Comment struct {
	ID        string    `json:"id"         db:"id"`
	PostID    string    `json:"post_id"    db:"post_id"`
	OwnerID   string    `json:"owner_id"   db:"owner_id"`
	Content   string    `json:"content"    db:"content"`
	Likes     []string  `json:"likes"      db:"likes"`
	LikeCount int       `json:"like_count" db:"like_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCommentRequest represents parameters to create a Comment.
type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

// Validate checks the create request against comment rules.
func (r CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.PostID) == "" {
		return apperrors.MissingField("post_id")
	}
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.MissingField("content")
	}
	if len(r.Content) > maxCommentLen {
		return apperrors.ValidationField("content", "content cannot exceed 500 characters")
	}
	return nil
}

// UpdateCommentRequest represents an edit to an existing comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Validate checks the update request against comment rules.
func (r UpdateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.MissingField("content")
	}
	if len(r.Content) > maxCommentLen {
		return apperrors.ValidationField("content", "content cannot exceed 500 characters")
	}
	return nil
}

// CommentStats summarizes comment totals for the admin dashboard.
type CommentStats struct {
	Total     int64 `json:"total"`
	LastMonth int64 `json:"last_month"`
}

// CommentsListOptions controls paging for listing comments on a post.
type CommentsListOptions struct {
	Limit  int
	Offset int
	Dir    string
}
