package data

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quillworks/quill-api/internal/data/database"
	"github.com/quillworks/quill-api/internal/data/pgxutil"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
)

const postColumns = "id, owner_id, title, slug, content, image_url, category, created_at, updated_at"

// PostRepo provides database operations for posts. Title and slug uniqueness
// is enforced by database constraints.
type PostRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPostRepo creates a new PostRepo with the real clock.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPostRepoWithTimeProvider creates a PostRepo with a custom clock for tests.
func NewPostRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PostRepo {
	return &PostRepo{DB: db, timeProvider: tp}
}

// Create inserts a new post.
func (r *PostRepo) Create(ctx context.Context, post model.Post) (model.Post, error) {
	now := r.timeProvider.Now().UTC()
	imageURL := post.ImageURL
	if imageURL == "" {
		imageURL = model.DefaultPostImageURL
	}
	category := post.Category
	if category == "" {
		category = model.DefaultPostCategory
	}

	var out model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO posts (owner_id, title, slug, content, image_url, category, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+postColumns,
			post.OwnerID,
			post.Title,
			post.Slug,
			post.Content,
			imageURL,
			category,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return model.Post{}, apperrors.MapDBError(err, "create post")
	}
	return out, nil
}

// FindByID retrieves a post by id.
func (r *PostRepo) FindByID(ctx context.Context, id string) (model.Post, error) {
	return r.findOne(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", "find post by id", id)
}

// FindBySlug retrieves a post by slug.
func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (model.Post, error) {
	return r.findOne(ctx, "SELECT "+postColumns+" FROM posts WHERE slug = $1", "find post by slug", slug)
}

func (r *PostRepo) findOne(ctx context.Context, query, op string, args ...any) (model.Post, error) {
	var out model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return model.Post{}, apperrors.MapDBError(err, op)
	}
	return out, nil
}

// Update applies the non-nil fields of req. When the title changes the caller
// is expected to have set req.Title; the slug is regenerated here so the two
// always move together.
func (r *PostRepo) Update(ctx context.Context, id string, req model.UpdatePostRequest) (model.Post, error) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, column+" = $"+strconv.Itoa(len(args)))
	}
	if req.Title != nil {
		add("title", *req.Title)
		add("slug", model.Slugify(*req.Title))
	}
	if req.Content != nil {
		add("content", *req.Content)
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if len(setParts) == 0 {
		return r.FindByID(ctx, id)
	}
	add("updated_at", r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE posts SET " + joinSet(setParts) +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + postColumns

	var out model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return model.Post{}, apperrors.MapDBError(err, "update post")
	}
	return out, nil
}

// Delete removes a post. Its comments are removed by FK cascade.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "posts", "delete post", id)
}

// List retrieves posts with optional filters, ordered by update time.
func (r *PostRepo) List(ctx context.Context, opts model.PostsListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	conds := make([]database.Condition, 0, 3)
	if opts.Category != nil {
		conds = append(conds, database.WhereCond("category", database.Equal, *opts.Category))
	}
	if opts.OwnerID != nil {
		conds = append(conds, database.WhereCond("owner_id", database.Equal, *opts.OwnerID))
	}
	if opts.Q != nil {
		conds = append(conds, database.WhereCond("title", database.ILike, "%"+*opts.Q+"%"))
	}

	query, args := database.BuildListQuery(database.ListQueryOptions{
		Table:      "posts",
		Columns:    []string{"id", "owner_id", "title", "slug", "content", "image_url", "category", "created_at", "updated_at"},
		Conditions: conds,
		OrderBy:    "updated_at",
		OrderDir:   opts.Dir,
		Limit:      limit,
		Offset:     max(opts.Offset, 0),
	})

	var out []model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err, "list posts")
	}
	return out, nil
}

// Count returns the total number of posts.
func (r *PostRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, "posts", "count posts", nil)
}

// CountCreatedSince returns how many posts were created at or after since.
func (r *PostRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return countRows(ctx, r.DB, "posts", "count recent posts", &since)
}
