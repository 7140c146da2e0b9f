package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/ports"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Accounts ports.AccountRepository // Required: account storage
	Hasher   *auth.Hasher            // Required: hashes replacement secrets
	Logger   *slog.Logger            // Optional: structured logger
}

// AccountService provides account management: self-service profile updates,
// deletion, and the admin listing.
type AccountService struct {
	accounts ports.AccountRepository
	hasher   *auth.Hasher
	logger   *slog.Logger
}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	if opts.Accounts == nil {
		panic("account service requires an account repository")
	}
	if opts.Hasher == nil {
		panic("account service requires a hasher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		accounts: opts.Accounts,
		hasher:   opts.Hasher,
		logger:   logger.With("component", "account_service"),
	}
}

// Get returns one account view.
func (s *AccountService) Get(ctx context.Context, id string) (model.AccountView, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return model.AccountView{}, err
	}
	return account.View(), nil
}

// Update applies a self-service profile change. A replacement secret is
// hashed here so the repository only ever sees a verifier.
func (s *AccountService) Update(ctx context.Context, id string, req model.UpdateAccountRequest) (model.AccountView, error) {
	if err := req.Validate(); err != nil {
		return model.AccountView{}, err
	}

	if req.Secret != nil {
		verifier, err := s.hasher.Hash(*req.Secret)
		if err != nil {
			return model.AccountView{}, apperrors.Wrap(err, apperrors.ErrCodeStorage, "hash secret")
		}
		req.Secret = &verifier
	}

	account, err := s.accounts.Update(ctx, id, req)
	if err != nil {
		return model.AccountView{}, err
	}

	s.logger.InfoContext(ctx, "account updated", "account_id", id)
	return account.View(), nil
}

// Delete removes an account and, via storage cascade, its posts and comments.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "account deleted", "account_id", id)
	return nil
}

// ListResult is one page of accounts plus dashboard totals.
type ListResult struct {
	Accounts []model.AccountView `json:"accounts"`
	Total    int64               `json:"total"`
	// LastMonth counts accounts created in the trailing 30 days.
	LastMonth int64 `json:"last_month"`
}

// List returns a page of account views with totals for the admin dashboard.
// Verifiers are stripped before anything leaves the service.
func (s *AccountService) List(ctx context.Context, opts model.AccountsListOptions) (ListResult, error) {
	accounts, err := s.accounts.List(ctx, opts)
	if err != nil {
		return ListResult{}, err
	}

	total, err := s.accounts.Count(ctx)
	if err != nil {
		return ListResult{}, err
	}
	lastMonth, err := s.accounts.CountCreatedSince(ctx, time.Now().UTC().Add(-30*24*time.Hour))
	if err != nil {
		return ListResult{}, err
	}

	views := make([]model.AccountView, len(accounts))
	for i := range accounts {
		views[i] = accounts[i].View()
	}
	return ListResult{Accounts: views, Total: total, LastMonth: lastMonth}, nil
}
