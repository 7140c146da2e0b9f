// Package devseed populates a development database with a known admin
// account and sample content. It is only ever invoked in dev mode.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quillworks/quill-api/internal/data"
	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
)

// Admin credentials for local development. Never use these values outside a
// throwaway database.
const (
	AdminHandle  = "quilladmin"
	AdminAddress = "admin@quill.local"
	AdminSecret  = "changeme"
)

// Seed inserts the dev admin account and a couple of sample posts. Seeding is
// idempotent: records that already exist are left untouched.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	accounts := data.NewAccountRepo(db)
	posts := data.NewPostRepo(db)

	admin, err := seedAdmin(ctx, accounts)
	if err != nil {
		return err
	}

	if err := seedPosts(ctx, posts, admin.ID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "development data seeded", "admin_handle", AdminHandle)
	return nil
}

func seedAdmin(ctx context.Context, accounts *data.AccountRepo) (model.Account, error) {
	existing, err := accounts.FindByAddress(ctx, AdminAddress)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return model.Account{}, fmt.Errorf("look up dev admin: %w", err)
	}

	hasher := auth.NewHasher(auth.DefaultBcryptCost)
	verifier, err := hasher.Hash(AdminSecret)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash dev admin secret: %w", err)
	}

	admin, err := accounts.Create(ctx, model.Account{
		Handle:         AdminHandle,
		ContactAddress: AdminAddress,
		Verifier:       verifier,
		IsAdmin:        true,
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("create dev admin: %w", err)
	}
	return admin, nil
}

func seedPosts(ctx context.Context, posts *data.PostRepo, ownerID string) error {
	samples := []model.Post{
		{
			Title:    "Welcome to Quill",
			Content:  "This sample post exists so the local feed is never empty.",
			Category: "announcements",
		},
		{
			Title:    "Writing Your First Post",
			Content:  "Sign in as the dev admin and use the posts API to publish.",
			Category: "guides",
		},
	}

	for _, p := range samples {
		p.OwnerID = ownerID
		p.Slug = model.Slugify(p.Title)
		if _, err := posts.Create(ctx, p); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
	}
	return nil
}
