package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

func TestAccountView_StripsVerifier(t *testing.T) {
	acct := Account{
		ID:             "acct-1",
		Handle:         "ann1234",
		ContactAddress: "a@x.com",
		Verifier:       "$2a$10$abcdefghijklmnopqrstuv",
		IsAdmin:        true,
		AvatarURL:      DefaultAvatarURL,
		CreatedAt:      time.Now(),
	}

	view := acct.View()
	assert.Equal(t, acct.ID, view.ID)
	assert.Equal(t, acct.Handle, view.Handle)
	assert.Equal(t, acct.ContactAddress, view.ContactAddress)
	assert.True(t, view.IsAdmin)
}

func TestValidateHandle(t *testing.T) {
	tests := []struct {
		name    string
		handle  string
		wantErr string
	}{
		{"valid", "ann1234", ""},
		{"too short", "ann", "between 7 and 15"},
		{"too long", "anabsurdlylonghandle", "between 7 and 15"},
		{"uppercase", "Ann1234", "lowercase"},
		{"spaces", "ann 123", "spaces"},
		{"punctuation", "ann_123", "alphanumeric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHandle(tt.handle)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestUpdateAccountRequest_Validate(t *testing.T) {
	handle := "ann1234"
	secret := "abcdef"
	avatar := "https://img.example.com/a.png"

	req := UpdateAccountRequest{Handle: &handle, Secret: &secret, AvatarURL: &avatar}
	assert.NoError(t, req.Validate())
}

func TestUpdateAccountRequest_Validate_Empty(t *testing.T) {
	err := UpdateAccountRequest{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field must be updated")
}

func TestUpdateAccountRequest_Validate_ShortSecret(t *testing.T) {
	secret := "abc"
	err := UpdateAccountRequest{Secret: &secret}.Validate()
	require.Error(t, err)
	assert.Equal(t, "secret", apperrors.GetField(err))
}

func TestUpdateAccountRequest_Validate_BadAvatarURL(t *testing.T) {
	for _, bad := range []string{"not a url", "ftp://example.com/a.png", "https://"} {
		avatar := bad
		err := UpdateAccountRequest{AvatarURL: &avatar}.Validate()
		require.Error(t, err, "avatar %q should be rejected", bad)
		assert.Equal(t, "avatar_url", apperrors.GetField(err))
	}
}
