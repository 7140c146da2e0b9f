package config

import "time"

const (
	// minBcryptCost and maxBcryptCost bound the configurable work factor to
	// the range accepted by golang.org/x/crypto/bcrypt.
	minBcryptCost = 4
	maxBcryptCost = 31
)

// GoogleOAuthConfig contains configuration for the federated (Google)
// sign-in provider. The upstream ID token is verified inside the adapter;
// the auth core only ever sees the already-verified identity assertion.
type GoogleOAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
	IssuerURL    string `env:"ISSUER_URL"   envDefault:"https://accounts.google.com"`
}

// Enabled reports whether the federated provider is fully configured.
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// TokenSecret signs session tokens. Startup fails when it is absent;
	// every issued token's integrity depends on this value staying private.
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// TokenTTL is the session token lifetime. Tokens carry an absolute
	// expiry and there is no server-side revocation, so keep this short.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// BcryptCost is the work factor used when hashing account secrets.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Google configuration for federated sign-in (optional).
	Google GoogleOAuthConfig `envPrefix:"GOOGLE_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.BcryptCost < minBcryptCost {
		a.BcryptCost = minBcryptCost
	}
	if a.BcryptCost > maxBcryptCost {
		a.BcryptCost = maxBcryptCost
	}
	if a.TokenTTL <= 0 {
		a.TokenTTL = time.Hour
	}
}
