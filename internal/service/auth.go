// Package service orchestrates the platform's business flows over the storage
// and provider ports.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/ports"
)

// federatedCreateAttempts bounds retries when a synthesized handle collides
// with an existing one.
const federatedCreateAttempts = 3

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Accounts ports.AccountRepository // Required: account storage
	Hasher   *auth.Hasher            // Required: credential hashing
	Codec    *auth.Codec             // Required: session token codec
	Identity ports.IdentityProvider  // Optional: federated sign-in disabled when nil
	Logger   *slog.Logger            // Optional: structured logger
}

// AuthService implements the authentication flows: signup, sign-in, and
// federated sign-in. It never logs or returns credential material.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   *auth.Hasher
	codec    *auth.Codec
	identity ports.IdentityProvider
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Accounts == nil {
		panic("auth service requires an account repository")
	}
	if opts.Hasher == nil {
		panic("auth service requires a hasher")
	}
	if opts.Codec == nil {
		panic("auth service requires a token codec")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts: opts.Accounts,
		hasher:   opts.Hasher,
		codec:    opts.Codec,
		identity: opts.Identity,
		logger:   logger.With("component", "auth_service"),
	}
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Handle         string
	ContactAddress string
	Secret         string
}

// Signup registers a new account. It does not authenticate the caller; a
// fresh account signs in separately. Duplicate handle or contact address
// surfaces as a Conflict from the storage layer's atomic constraint check.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (model.AccountView, error) {
	handle := strings.TrimSpace(in.Handle)
	address := strings.TrimSpace(in.ContactAddress)

	if handle == "" {
		return model.AccountView{}, apperrors.MissingField("handle")
	}
	if address == "" {
		return model.AccountView{}, apperrors.MissingField("contact_address")
	}
	if in.Secret == "" {
		return model.AccountView{}, apperrors.MissingField("secret")
	}
	if err := model.ValidateHandle(handle); err != nil {
		return model.AccountView{}, err
	}
	if err := model.ValidateSecret(in.Secret); err != nil {
		return model.AccountView{}, err
	}

	verifier, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return model.AccountView{}, apperrors.Wrap(err, apperrors.ErrCodeStorage, "hash secret")
	}

	account, err := s.accounts.Create(ctx, model.Account{
		Handle:         handle,
		ContactAddress: address,
		Verifier:       verifier,
	})
	if err != nil {
		return model.AccountView{}, err
	}

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID)
	return account.View(), nil
}

// SignInInput carries the fields of a sign-in request.
type SignInInput struct {
	ContactAddress string
	Secret         string
}

// SignInResult is a session token plus the authenticated account, with the
// credential verifier already stripped.
type SignInResult struct {
	Token   string
	Account model.AccountView
}

// SignIn authenticates by contact address and secret. An unknown address is
// NotFound; a failed secret check is InvalidCredential. The two are distinct
// on purpose, matching the platform's public API contract.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (SignInResult, error) {
	address := strings.TrimSpace(in.ContactAddress)
	if address == "" {
		return SignInResult{}, apperrors.MissingField("contact_address")
	}
	if in.Secret == "" {
		return SignInResult{}, apperrors.MissingField("secret")
	}

	account, err := s.accounts.FindByAddress(ctx, address)
	if err != nil {
		return SignInResult{}, err
	}

	if !s.hasher.Verify(in.Secret, account.Verifier) {
		return SignInResult{}, apperrors.InvalidCredential("invalid credentials")
	}

	token, err := s.codec.Issue(account.ID, account.IsAdmin)
	if err != nil {
		return SignInResult{}, err
	}

	s.logger.InfoContext(ctx, "sign-in", "account_id", account.ID)
	return SignInResult{Token: token, Account: account.View()}, nil
}

// FederatedSignIn authenticates with an assertion already verified by the
// upstream identity provider. An existing account for the asserted address
// signs in directly; otherwise an account is synthesized with a randomized
// handle and an unguessable secret. All three asserted fields are required;
// an empty display name would otherwise collapse the synthesized handle to
// just its random suffix.
func (s *AuthService) FederatedSignIn(ctx context.Context, identity ports.AssertedIdentity) (SignInResult, error) {
	if strings.TrimSpace(identity.Name) == "" {
		return SignInResult{}, apperrors.MissingField("display_name")
	}
	address := strings.TrimSpace(identity.Address)
	if address == "" {
		return SignInResult{}, apperrors.MissingField("contact_address")
	}
	if strings.TrimSpace(identity.AvatarURL) == "" {
		return SignInResult{}, apperrors.MissingField("avatar_url")
	}

	account, err := s.accounts.FindByAddress(ctx, address)
	if err != nil && !apperrors.IsNotFound(err) {
		return SignInResult{}, err
	}
	if apperrors.IsNotFound(err) {
		account, err = s.createFederatedAccount(ctx, identity)
		if err != nil {
			return SignInResult{}, err
		}
	}

	token, err := s.codec.Issue(account.ID, account.IsAdmin)
	if err != nil {
		return SignInResult{}, err
	}

	s.logger.InfoContext(ctx, "federated sign-in", "account_id", account.ID)
	return SignInResult{Token: token, Account: account.View()}, nil
}

// createFederatedAccount synthesizes an account for a first-time federated
// identity. Handle collisions are retried with a fresh random suffix; if every
// attempt collides the failure is a retryable StorageFault, never a
// DuplicateIdentity, because the caller did not choose the handle.
func (s *AuthService) createFederatedAccount(ctx context.Context, identity ports.AssertedIdentity) (model.Account, error) {
	secret, err := randomSecret()
	if err != nil {
		return model.Account{}, apperrors.Wrap(err, apperrors.ErrCodeStorage, "generate secret")
	}
	verifier, err := s.hasher.Hash(secret)
	if err != nil {
		return model.Account{}, apperrors.Wrap(err, apperrors.ErrCodeStorage, "hash secret")
	}

	var lastErr error
	for range federatedCreateAttempts {
		handle, handleErr := synthesizeHandle(identity.Name)
		if handleErr != nil {
			return model.Account{}, apperrors.Wrap(handleErr, apperrors.ErrCodeStorage, "synthesize handle")
		}

		account, createErr := s.accounts.Create(ctx, model.Account{
			Handle:         handle,
			ContactAddress: strings.TrimSpace(identity.Address),
			Verifier:       verifier,
			AvatarURL:      identity.AvatarURL,
		})
		if createErr == nil {
			s.logger.InfoContext(ctx, "federated account created", "account_id", account.ID)
			return account, nil
		}
		if apperrors.IsConflict(createErr) && apperrors.GetField(createErr) == "handle" {
			lastErr = createErr
			continue
		}
		return model.Account{}, createErr
	}
	return model.Account{}, apperrors.Wrap(lastErr, apperrors.ErrCodeStorage, "could not allocate a unique handle")
}

// synthesizeHandle derives a handle from the provider display name: lowercase,
// spaces removed, plus a random numeric suffix for uniqueness.
func synthesizeHandle(name string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	var b strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base = b.String()
	if len(base) > 11 {
		base = base[:11]
	}

	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	// 4 hex chars keep the total within the 15-char handle limit.
	return base + hex.EncodeToString(suffix), nil
}

// randomSecret produces an unguessable secret for synthesized accounts. The
// plaintext is hashed and discarded; it is never stored or logged.
func randomSecret() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
