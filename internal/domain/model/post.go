package model

import (
	"strings"
	"time"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

const (
	// DefaultPostImageURL is the placeholder cover image for posts.
	DefaultPostImageURL = "https://static.quillworks.io/img/post-placeholder.png"
	// DefaultPostCategory is used when a post is created without a category.
	DefaultPostCategory = "uncategorized"

	minPostTitleLen   = 5
	maxPostTitleLen   = 100
	minPostContentLen = 10
)

// Post represents one published article. Title and Slug are each globally
// unique; the slug is derived from the title at creation time.
type Post struct {
	ID        string    `json:"id"         db:"id"`
	OwnerID   string    `json:"owner_id"   db:"owner_id"`
	Title     string    `json:"title"      db:"title"`
	Slug      string    `json:"slug"       db:"slug"`
	Content   string    `json:"content"    db:"content"`
	ImageURL  string    `json:"image_url"  db:"image_url"`
	Category  string    `json:"category"   db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePostRequest represents parameters to create a Post.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category,omitempty"`
}

// Validate checks the create request against post rules.
func (r CreatePostRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return apperrors.MissingField("title")
	}
	if len(title) < minPostTitleLen || len(title) > maxPostTitleLen {
		return apperrors.ValidationField("title", "title must be between 5 and 100 characters")
	}
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.MissingField("content")
	}
	if len(r.Content) < minPostContentLen {
		return apperrors.ValidationField("content", "content must be at least 10 characters")
	}
	return nil
}

// UpdatePostRequest represents parameters to update a Post. Nil fields are
// left unchanged. The slug is regenerated when the title changes.
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Validate checks all provided fields against the post rules.
func (r UpdatePostRequest) Validate() error {
	if r.Title == nil && r.Content == nil && r.ImageURL == nil && r.Category == nil {
		return apperrors.Validation("at least one field must be updated")
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if len(title) < minPostTitleLen || len(title) > maxPostTitleLen {
			return apperrors.ValidationField("title", "title must be between 5 and 100 characters")
		}
	}
	if r.Content != nil && len(*r.Content) < minPostContentLen {
		return apperrors.ValidationField("content", "content must be at least 10 characters")
	}
	return nil
}

// Slugify derives a URL-safe slug from a post title: lowercase, alphanumeric
// runs joined by single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// PostsListOptions controls paging and filtering for listing posts.
// Notes:
// - Dir supports "asc" and "desc" (case-insensitive); values are normalized internally.
// - Q matches title via ILIKE substring.
// - Category and OwnerID match exactly.
type PostsListOptions struct {
	Limit    int
	Offset   int
	Q        *string
	Category *string
	OwnerID  *string
	Dir      string
}

// PostStats summarizes post totals for the admin dashboard.
type PostStats struct {
	Total     int64 `json:"total"`
	LastMonth int64 `json:"last_month"`
}
