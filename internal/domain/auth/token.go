package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

// DefaultTokenTTL bounds the blast radius of a leaked token: there is no
// server-side revocation list, so tokens die on their own within the hour.
const DefaultTokenTTL = time.Hour

// Claims is the decoded content of a session token: the subject account and
// a snapshot of its privilege flag at issuance time.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID string `json:"sub_id"`
	IsAdmin   bool   `json:"admin"`
}

// Codec creates and validates signed, time-bounded session tokens.
// The signing secret is injected at construction and lives only in server
// memory; tokens are stateless and never persisted server-side.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec constructs a Codec signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}
}

// NewCodecWithClock constructs a Codec with an injectable clock for tests.
func NewCodecWithClock(secret []byte, ttl time.Duration, now func() time.Time) *Codec {
	c := NewCodec(secret, ttl)
	c.now = now
	return c
}

// Issue produces a signed token for the given subject, expiring exactly one
// TTL after issuance.
func (c *Codec) Issue(subjectID string, isAdmin bool) (string, error) {
	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
		SubjectID: subjectID,
		IsAdmin:   isAdmin,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorage, "sign token")
	}
	return signed, nil
}

// Verify checks the token signature and time bounds and returns the decoded
// claims. Failures are typed: signature mismatch, expiry, and anything that
// cannot be parsed, in that order of specificity.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, apperrors.TokenSignature("token signature mismatch")
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, apperrors.TokenExpired("token expired")
		default:
			return Claims{}, apperrors.TokenMalformed("token cannot be parsed")
		}
	}
	if !token.Valid {
		return Claims{}, apperrors.TokenMalformed("token cannot be parsed")
	}

	return *claims, nil
}
