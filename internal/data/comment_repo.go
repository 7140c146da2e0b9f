package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quillworks/quill-api/internal/data/database"
	"github.com/quillworks/quill-api/internal/data/pgxutil"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
)

const commentColumns = "id, post_id, owner_id, content, likes, like_count, created_at, updated_at"

// CommentRepo provides database operations for comments. Likes are stored as
// an array of account ids; like_count is a generated column derived from it.
type CommentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCommentRepo creates a new CommentRepo with the real clock.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewCommentRepoWithTimeProvider creates a CommentRepo with a custom clock for tests.
func NewCommentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new comment.
func (r *CommentRepo) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	now := r.timeProvider.Now().UTC()

	var out model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO comments (post_id, owner_id, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			RETURNING `+commentColumns,
			comment.PostID,
			comment.OwnerID,
			comment.Content,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return model.Comment{}, apperrors.MapDBError(err, "create comment")
	}
	return out, nil
}

// FindByID retrieves a comment by id.
func (r *CommentRepo) FindByID(ctx context.Context, id string) (model.Comment, error) {
	return r.findOne(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", "find comment by id", id)
}

func (r *CommentRepo) findOne(ctx context.Context, query, op string, args ...any) (model.Comment, error) {
	var out model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return model.Comment{}, apperrors.MapDBError(err, op)
	}
	return out, nil
}

// Update replaces the comment content.
func (r *CommentRepo) Update(ctx context.Context, id, content string) (model.Comment, error) {
	return r.findOne(ctx, `
		UPDATE comments SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+commentColumns,
		"update comment", id, content, r.timeProvider.Now().UTC())
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "comments", "delete comment", id)
}

// ListByPost retrieves all comments on a post, newest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return r.list(ctx, "list comments for post", database.ListQueryOptions{
		Table:      "comments",
		Columns:    commentColumnList(),
		Conditions: []database.Condition{database.WhereCond("post_id", database.Equal, postID)},
		OrderBy:    "created_at",
	})
}

// List retrieves a page of comments across all posts for moderation.
func (r *CommentRepo) List(ctx context.Context, opts model.CommentsListOptions) ([]model.Comment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return r.list(ctx, "list comments", database.ListQueryOptions{
		Table:    "comments",
		Columns:  commentColumnList(),
		OrderBy:  "created_at",
		OrderDir: opts.Dir,
		Limit:    limit,
		Offset:   max(opts.Offset, 0),
	})
}

func (r *CommentRepo) list(ctx context.Context, op string, queryOpts database.ListQueryOptions) ([]model.Comment, error) {
	query, args := database.BuildListQuery(queryOpts)

	var out []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err, op)
	}
	return out, nil
}

// ToggleLike adds accountID to the comment's likes if absent and removes it
// if present, in a single statement so concurrent toggles cannot double-add.
func (r *CommentRepo) ToggleLike(ctx context.Context, id, accountID string) (model.Comment, error) {
	return r.findOne(ctx, `
		UPDATE comments SET likes = CASE
			WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
			ELSE array_append(likes, $2)
		END, updated_at = $3
		WHERE id = $1
		RETURNING `+commentColumns,
		"toggle comment like", id, accountID, r.timeProvider.Now().UTC())
}

// Count returns the total number of comments.
func (r *CommentRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, "comments", "count comments", nil)
}

// CountCreatedSince returns how many comments were created at or after since.
func (r *CommentRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return countRows(ctx, r.DB, "comments", "count recent comments", &since)
}

func commentColumnList() []string {
	return []string{"id", "post_id", "owner_id", "content", "likes", "like_count", "created_at", "updated_at"}
}
