package ports

import "context"

//go:generate mockgen -source=identity.go -destination=../mocks/identity_mock.go -package=mocks

// AssertedIdentity is an identity claim already verified by an upstream
// provider. The service layer trusts it as-is; token verification happens in
// the adapter before one of these is ever constructed.
type AssertedIdentity struct {
	Name      string
	Address   string
	AvatarURL string
}

// IdentityProvider verifies a federated credential with an upstream identity
// provider and returns the asserted identity.
type IdentityProvider interface {
	// VerifyAssertion validates the raw provider credential (an ID token) and
	// returns the identity it asserts.
	VerifyAssertion(ctx context.Context, rawToken string) (AssertedIdentity, error)

	// AuthCodeURL returns the provider consent URL for the given CSRF state.
	AuthCodeURL(state string) string

	// ExchangeCode redeems an authorization code for the provider's raw ID
	// token, which can then be passed to VerifyAssertion.
	ExchangeCode(ctx context.Context, code string) (string, error)
}
