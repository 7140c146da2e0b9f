package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quillworks/quill-api/internal/errors"
)

var testSecret = []byte("unit-test-signing-secret")

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	token, err := codec.Issue("acct-1", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.SubjectID)
	assert.True(t, claims.IsAdmin)
}

func TestCodec_ExpiryIsOneTTLAfterIssuance(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodecWithClock(testSecret, time.Hour, func() time.Time { return issued })

	token, err := codec.Issue("acct-1", false)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
}

func TestCodec_Verify_Expired(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodecWithClock(testSecret, time.Hour, func() time.Time { return clock })

	token, err := codec.Issue("acct-1", false)
	require.NoError(t, err)

	// Still valid just before expiry.
	clock = clock.Add(time.Hour - time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	// Invalid at exactly issuedAt + 1h.
	clock = clock.Add(2 * time.Second)
	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, apperrors.GetCode(err))
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	issuer := NewCodec(testSecret, time.Hour)
	verifier := NewCodec([]byte("a-different-secret"), time.Hour)

	token, err := issuer.Issue("acct-1", false)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTokenSignature, apperrors.GetCode(err))
}

func TestCodec_Verify_Malformed(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	for _, garbage := range []string{"", "not.a.token", "aaaa"} {
		_, err := codec.Verify(garbage)
		require.Error(t, err, "token %q should fail", garbage)
		assert.Equal(t, apperrors.ErrCodeTokenMalformed, apperrors.GetCode(err))
	}
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	assert.Equal(t, DefaultTokenTTL, codec.ttl)
}
