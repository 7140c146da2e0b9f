//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/url"
	"strings"
	"time"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

const (
	// DefaultAvatarURL is the placeholder shown for accounts without an avatar.
	DefaultAvatarURL = "https://static.quillworks.io/img/avatar-placeholder.png"

	minHandleLen = 7
	maxHandleLen = 15
	minSecretLen = 6
)

// Account represents one registered identity.
//
// Handle and ContactAddress are each globally unique; uniqueness is enforced
// atomically by the storage layer, never by a pre-check in application code.
// Verifier is the bcrypt hash of the account secret and must never leave the
// data/service boundary — it is excluded from JSON and from AccountView.
type Account struct {
	ID             string    `json:"id"              db:"id"`
	Handle         string    `json:"handle"          db:"handle"`
	ContactAddress string    `json:"contact_address" db:"contact_address"`
	Verifier       string    `json:"-"               db:"verifier"`
	IsAdmin        bool      `json:"is_admin"        db:"is_admin"`
	AvatarURL      string    `json:"avatar_url"      db:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"      db:"updated_at"`
}

// AccountView is the projection of an account that is safe to return to
// clients: identical to Account minus the credential verifier.
type AccountView struct {
	ID             string    `json:"id"`
	Handle         string    `json:"handle"`
	ContactAddress string    `json:"contact_address"`
	IsAdmin        bool      `json:"is_admin"`
	AvatarURL      string    `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// View strips the credential verifier from the account.
func (a *Account) View() AccountView {
	return AccountView{
		ID:             a.ID,
		Handle:         a.Handle,
		ContactAddress: a.ContactAddress,
		IsAdmin:        a.IsAdmin,
		AvatarURL:      a.AvatarURL,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ValidateHandle enforces the handle rules applied when an account holder
// picks their own handle: 7-15 characters, lowercase alphanumeric, no spaces.
// Synthesized federated handles bypass this (they are machine-generated).
func ValidateHandle(handle string) error {
	if len(handle) < minHandleLen || len(handle) > maxHandleLen {
		return apperrors.ValidationField("handle", "handle must be between 7 and 15 characters")
	}
	if strings.Contains(handle, " ") {
		return apperrors.ValidationField("handle", "handle cannot contain spaces")
	}
	if handle != strings.ToLower(handle) {
		return apperrors.ValidationField("handle", "handle must be lowercase")
	}
	for _, r := range handle {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return apperrors.ValidationField("handle", "handle can only contain alphanumeric characters")
		}
	}
	return nil
}

// ValidateSecret enforces the minimum secret length for holder-chosen secrets.
func ValidateSecret(secret string) error {
	if len(secret) < minSecretLen {
		return apperrors.ValidationField("secret", "secret must be at least 6 characters")
	}
	return nil
}

// validateAvatarURL accepts only http(s) URLs with a host.
func validateAvatarURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.ValidationField("avatar_url", "avatar_url must be a valid URL")
	}
	return nil
}

// UpdateAccountRequest represents parameters an account holder may change on
// their own account. The privilege flag is deliberately absent: it is settable
// only by direct data administration, never through any exposed flow.
type UpdateAccountRequest struct {
	Handle         *string `json:"handle,omitempty"`
	ContactAddress *string `json:"contact_address,omitempty"`
	Secret         *string `json:"secret,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
}

// Validate checks all provided fields against the account rules.
func (r UpdateAccountRequest) Validate() error {
	if r.Handle == nil && r.ContactAddress == nil && r.Secret == nil && r.AvatarURL == nil {
		return apperrors.Validation("at least one field must be updated")
	}
	if r.Handle != nil {
		if err := ValidateHandle(*r.Handle); err != nil {
			return err
		}
	}
	if r.ContactAddress != nil && strings.TrimSpace(*r.ContactAddress) == "" {
		return apperrors.MissingField("contact_address")
	}
	if r.Secret != nil {
		if err := ValidateSecret(*r.Secret); err != nil {
			return err
		}
	}
	if r.AvatarURL != nil {
		if err := validateAvatarURL(*r.AvatarURL); err != nil {
			return err
		}
	}
	return nil
}

// AccountsListOptions controls paging for the admin account listing.
type AccountsListOptions struct {
	Limit  int
	Offset int
	Dir    string // "asc" or "desc" by created_at; normalized internally
}

// AccountStats summarizes account totals for the admin dashboard.
type AccountStats struct {
	Total     int64 `json:"total"`
	LastMonth int64 `json:"last_month"`
}
