// Package data implements the storage ports on PostgreSQL via the pgx stdlib
// bridge, plus the Redis-backed stats cache.
package data

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quillworks/quill-api/internal/data/database"
	"github.com/quillworks/quill-api/internal/data/pgxutil"
	apperrors "github.com/quillworks/quill-api/internal/errors"
)

func joinSet(parts []string) string {
	return strings.Join(parts, ", ")
}

// deleteByID removes one row and maps a zero-row result to NotFound.
// Table names come from repository code, never from callers.
func deleteByID(ctx context.Context, db *sql.DB, table, op, id string) error {
	if err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}); err != nil {
		return apperrors.MapDBError(err, op)
	}
	return nil
}

// countRows counts rows in table, optionally restricted to created_at >= since.
func countRows(ctx context.Context, db *sql.DB, table, op string, since *time.Time) (int64, error) {
	opts := database.ListQueryOptions{Table: table, CountOnly: true}
	if since != nil {
		opts.Conditions = []database.Condition{
			database.WhereCond("created_at", database.Gte, since.UTC()),
		}
	}
	query, args := database.BuildListQuery(opts)

	var count int64
	if err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, apperrors.MapDBError(err, op)
	}
	return count, nil
}
