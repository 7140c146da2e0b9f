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

const accountColumns = "id, handle, contact_address, verifier, is_admin, avatar_url, created_at, updated_at"

const defaultListLimit = 50

// AccountRepo provides database operations for accounts. Uniqueness of handle
// and contact_address is enforced by database constraints; a violation surfaces
// as a Conflict error with the offending field attached.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with the real clock.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates an AccountRepo with a custom clock for tests.
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, account model.Account) (model.Account, error) {
	now := r.timeProvider.Now().UTC()
	avatarURL := account.AvatarURL
	if avatarURL == "" {
		avatarURL = model.DefaultAvatarURL
	}

	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (handle, contact_address, verifier, is_admin, avatar_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+accountColumns,
			account.Handle,
			account.ContactAddress,
			account.Verifier,
			account.IsAdmin,
			avatarURL,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return model.Account{}, apperrors.MapDBError(err, "create account")
	}
	return out, nil
}

// FindByID retrieves an account by id.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (model.Account, error) {
	return r.findOne(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", "find account by id", id)
}

// FindByAddress retrieves an account by contact address.
func (r *AccountRepo) FindByAddress(ctx context.Context, address string) (model.Account, error) {
	return r.findOne(ctx, "SELECT "+accountColumns+" FROM accounts WHERE contact_address = $1", "find account by address", address)
}

func (r *AccountRepo) findOne(ctx context.Context, query, op string, args ...any) (model.Account, error) {
	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return model.Account{}, apperrors.MapDBError(err, op)
	}
	return out, nil
}

// Update applies the non-nil fields of req and returns the updated account.
// Secret must already be hashed into req by the service layer; this method
// receives a verifier, never a plaintext secret.
func (r *AccountRepo) Update(ctx context.Context, id string, req model.UpdateAccountRequest) (model.Account, error) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, column+" = $"+strconv.Itoa(len(args)))
	}
	if req.Handle != nil {
		add("handle", *req.Handle)
	}
	if req.ContactAddress != nil {
		add("contact_address", *req.ContactAddress)
	}
	if req.Secret != nil {
		add("verifier", *req.Secret)
	}
	if req.AvatarURL != nil {
		add("avatar_url", *req.AvatarURL)
	}
	if len(setParts) == 0 {
		return r.FindByID(ctx, id)
	}
	add("updated_at", r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE accounts SET " + joinSet(setParts) +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + accountColumns

	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return model.Account{}, apperrors.MapDBError(err, "update account")
	}
	return out, nil
}

// Delete removes an account. Posts and comments owned by the account are
// removed by FK cascade.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "accounts", "delete account", id)
}

// List retrieves a page of accounts ordered by creation time.
func (r *AccountRepo) List(ctx context.Context, opts model.AccountsListOptions) ([]model.Account, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args := database.BuildListQuery(database.ListQueryOptions{
		Table:    "accounts",
		Columns:  []string{"id", "handle", "contact_address", "verifier", "is_admin", "avatar_url", "created_at", "updated_at"},
		OrderBy:  "created_at",
		OrderDir: opts.Dir,
		Limit:    limit,
		Offset:   max(opts.Offset, 0),
	})

	var out []model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err, "list accounts")
	}
	return out, nil
}

// Count returns the total number of accounts.
func (r *AccountRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, "accounts", "count accounts", nil)
}

// CountCreatedSince returns how many accounts were created at or after since.
func (r *AccountRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return countRows(ctx, r.DB, "accounts", "count recent accounts", &since)
}
