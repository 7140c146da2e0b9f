package auth

import (
	apperrors "github.com/quillworks/quill-api/internal/errors"
)

// Policy selects an authorization rule for a protected operation.
type Policy string

const (
	// PolicyAuthenticated allows any holder of a valid token.
	PolicyAuthenticated Policy = "authenticated"
	// PolicySelfOrAdmin allows the owner of the target resource or any administrator.
	PolicySelfOrAdmin Policy = "self_or_admin"
	// PolicyAdminOnly allows administrators only.
	PolicyAdminOnly Policy = "admin_only"
)

// Guard decides allow/deny for protected requests. It is a pure decision
// function composed with the Codec; it never mutates state, so the same
// token and policy always yield the same decision while the token is valid.
type Guard struct {
	codec *Codec
}

// NewGuard constructs a Guard over the given codec.
func NewGuard(codec *Codec) *Guard {
	return &Guard{codec: codec}
}

// Authorize decodes the token and evaluates policy against the target
// resource's owning account. Decode failures (signature, expiry, malformed)
// always take precedence over policy evaluation. On allow it returns the
// decoded claims for downstream handlers; on deny it returns a typed reason.
func (g *Guard) Authorize(token string, policy Policy, targetOwnerID string) (Claims, error) {
	claims, err := g.codec.Verify(token)
	if err != nil {
		return Claims{}, err
	}

	if err := Allows(claims, policy, targetOwnerID); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// Allows evaluates policy against already-decoded claims.
func Allows(claims Claims, policy Policy, targetOwnerID string) error {
	switch policy {
	case PolicyAuthenticated:
		return nil
	case PolicySelfOrAdmin:
		if claims.IsAdmin || claims.SubjectID == targetOwnerID {
			return nil
		}
		return apperrors.Forbidden("not the resource owner")
	case PolicyAdminOnly:
		if claims.IsAdmin {
			return nil
		}
		return apperrors.Forbidden("administrator access required")
	default:
		return apperrors.Forbidden("unknown policy")
	}
}
