package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/domain/model"
	apperrors "github.com/quillworks/quill-api/internal/errors"
	"github.com/quillworks/quill-api/internal/mocks"
	"github.com/quillworks/quill-api/internal/ports"
)

func newAuthService(t *testing.T) (*mocks.MockAccountRepository, *auth.Hasher, *auth.Codec, *AuthService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	accounts := mocks.NewMockAccountRepository(ctrl)
	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewCodec([]byte("service-test-secret"), time.Hour)

	svc := NewAuthService(AuthServiceOptions{
		Accounts: accounts,
		Hasher:   hasher,
		Codec:    codec,
	})
	return accounts, hasher, codec, svc
}

func TestAuthService_Signup_Success(t *testing.T) {
	t.Parallel()
	accounts, hasher, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, account model.Account) (model.Account, error) {
			// The repository receives a verifier, never the plaintext secret.
			assert.NotEqual(t, "hunter22", account.Verifier)
			assert.True(t, hasher.Verify("hunter22", account.Verifier))
			account.ID = "acct-1"
			return account, nil
		}).
		Times(1)

	view, err := svc.Signup(ctx, SignupInput{
		Handle:         "quillbird",
		ContactAddress: "bird@example.com",
		Secret:         "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-1", view.ID)
	assert.Equal(t, "quillbird", view.Handle)
}

func TestAuthService_Signup_MissingFields(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"missing handle", SignupInput{ContactAddress: "a@b.com", Secret: "secret1"}, "handle"},
		{"missing address", SignupInput{Handle: "quillbird", Secret: "secret1"}, "contact_address"},
		{"missing secret", SignupInput{Handle: "quillbird", ContactAddress: "a@b.com"}, "secret"},
		{"blank handle", SignupInput{Handle: "   ", ContactAddress: "a@b.com", Secret: "secret1"}, "handle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestAuthService_Signup_InvalidHandleAndSecret(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Handle: "short", ContactAddress: "a@b.com", Secret: "secret1"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Signup(ctx, SignupInput{Handle: "quillbird", ContactAddress: "a@b.com", Secret: "tiny"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_Signup_DuplicateIsConflict(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(model.Account{}, apperrors.Conflict("account already exists")).
		Times(1)

	_, err := svc.Signup(ctx, SignupInput{
		Handle:         "quillbird",
		ContactAddress: "bird@example.com",
		Secret:         "hunter22",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAuthService_SignIn_Success(t *testing.T) {
	t.Parallel()
	accounts, hasher, codec, svc := newAuthService(t)
	ctx := context.Background()

	verifier, err := hasher.Hash("hunter22")
	require.NoError(t, err)

	accounts.EXPECT().
		FindByAddress(ctx, "bird@example.com").
		Return(model.Account{
			ID:             "acct-1",
			Handle:         "quillbird",
			ContactAddress: "bird@example.com",
			Verifier:       verifier,
			IsAdmin:        true,
		}, nil).
		Times(1)

	result, err := svc.SignIn(ctx, SignInInput{ContactAddress: "bird@example.com", Secret: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "acct-1", result.Account.ID)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.SubjectID)
	assert.True(t, claims.IsAdmin)
}

func TestAuthService_SignIn_UnknownAddressIsNotFound(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "ghost@example.com").
		Return(model.Account{}, apperrors.NotFound("account not found")).
		Times(1)

	_, err := svc.SignIn(ctx, SignInInput{ContactAddress: "ghost@example.com", Secret: "whatever1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_SignIn_WrongSecretIsInvalidCredential(t *testing.T) {
	t.Parallel()
	accounts, hasher, _, svc := newAuthService(t)
	ctx := context.Background()

	verifier, err := hasher.Hash("correct-secret")
	require.NoError(t, err)

	accounts.EXPECT().
		FindByAddress(ctx, "bird@example.com").
		Return(model.Account{ID: "acct-1", Verifier: verifier}, nil).
		Times(1)

	_, err = svc.SignIn(ctx, SignInInput{ContactAddress: "bird@example.com", Secret: "wrong-secret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredential(err))
	// The failure reason never echoes the submitted secret.
	assert.NotContains(t, err.Error(), "wrong-secret")
}

func TestAuthService_SignIn_MissingFields(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, SignInInput{Secret: "hunter22"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.SignIn(ctx, SignInInput{ContactAddress: "bird@example.com"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_FederatedSignIn_ExistingAccount(t *testing.T) {
	t.Parallel()
	accounts, _, codec, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "fed@example.com").
		Return(model.Account{ID: "acct-9", ContactAddress: "fed@example.com"}, nil).
		Times(1)

	result, err := svc.FederatedSignIn(ctx, ports.AssertedIdentity{
		Name:      "Fed User",
		Address:   "fed@example.com",
		AvatarURL: "https://lh3.example.com/fed.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-9", result.Account.ID)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "acct-9", claims.SubjectID)
}

func TestAuthService_FederatedSignIn_SynthesizesAccount(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "new@example.com").
		Return(model.Account{}, apperrors.NotFound("account not found")).
		Times(1)

	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, account model.Account) (model.Account, error) {
			assert.Equal(t, "new@example.com", account.ContactAddress)
			assert.NotEmpty(t, account.Verifier)
			// Handle is derived from the display name plus a random suffix.
			assert.Regexp(t, `^newuser[0-9a-f]{4}$`, account.Handle)
			assert.LessOrEqual(t, len(account.Handle), 15)
			account.ID = "acct-new"
			return account, nil
		}).
		Times(1)

	result, err := svc.FederatedSignIn(ctx, ports.AssertedIdentity{
		Name:      "New User",
		Address:   "new@example.com",
		AvatarURL: "https://lh3.example.com/photo.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-new", result.Account.ID)
}

func TestAuthService_FederatedSignIn_MissingAssertedFields(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    ports.AssertedIdentity
		field string
	}{
		{
			"missing display name",
			ports.AssertedIdentity{Address: "x@example.com", AvatarURL: "https://lh3.example.com/x.png"},
			"display_name",
		},
		{
			"blank display name",
			ports.AssertedIdentity{Name: "   ", Address: "x@example.com", AvatarURL: "https://lh3.example.com/x.png"},
			"display_name",
		},
		{
			"missing address",
			ports.AssertedIdentity{Name: "Some User", AvatarURL: "https://lh3.example.com/x.png"},
			"contact_address",
		},
		{
			"missing avatar",
			ports.AssertedIdentity{Name: "Some User", Address: "x@example.com"},
			"avatar_url",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// No repository expectations: validation fails before any lookup.
			_, err := svc.FederatedSignIn(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestAuthService_FederatedSignIn_RetriesHandleCollision(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "busy@example.com").
		Return(model.Account{}, apperrors.NotFound("account not found")).
		Times(1)

	handleConflict := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "duplicate", Field: "handle"}
	first := accounts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(model.Account{}, handleConflict).
		Times(1)
	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		After(first).
		DoAndReturn(func(_ context.Context, account model.Account) (model.Account, error) {
			account.ID = "acct-retry"
			return account, nil
		}).
		Times(1)

	result, err := svc.FederatedSignIn(ctx, ports.AssertedIdentity{
		Name:      "Busy Name",
		Address:   "busy@example.com",
		AvatarURL: "https://lh3.example.com/busy.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-retry", result.Account.ID)
}

func TestAuthService_FederatedSignIn_ExhaustedRetriesIsStorageFault(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "busy@example.com").
		Return(model.Account{}, apperrors.NotFound("account not found")).
		Times(1)

	handleConflict := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "duplicate", Field: "handle"}
	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(model.Account{}, handleConflict).
		Times(federatedCreateAttempts)

	_, err := svc.FederatedSignIn(ctx, ports.AssertedIdentity{
		Name:      "Busy Name",
		Address:   "busy@example.com",
		AvatarURL: "https://lh3.example.com/busy.png",
	})
	require.Error(t, err)
	// Exhausting handle retries is retryable, never a duplicate-identity error.
	assert.True(t, apperrors.IsStorage(err))
	assert.False(t, apperrors.IsConflict(err))
}

func TestAuthService_FederatedSignIn_AddressConflictPassesThrough(t *testing.T) {
	t.Parallel()
	accounts, _, _, svc := newAuthService(t)
	ctx := context.Background()

	accounts.EXPECT().
		FindByAddress(ctx, "race@example.com").
		Return(model.Account{}, apperrors.NotFound("account not found")).
		Times(1)

	addressConflict := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "duplicate", Field: "contact_address"}
	accounts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(model.Account{}, addressConflict).
		Times(1)

	_, err := svc.FederatedSignIn(ctx, ports.AssertedIdentity{
		Name:      "Race User",
		Address:   "race@example.com",
		AvatarURL: "https://lh3.example.com/race.png",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestSynthesizeHandle(t *testing.T) {
	t.Parallel()

	handle, err := synthesizeHandle("Ada Lovelace Of Computing")
	require.NoError(t, err)
	assert.Regexp(t, `^adalovelace[0-9a-f]{4}$`, handle)
	assert.LessOrEqual(t, len(handle), 15)

	short, err := synthesizeHandle("")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{4}$`, short)
}
