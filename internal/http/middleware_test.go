package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill-api/internal/domain/auth"
)

func okHandler(t *testing.T, wantSubject string, wantAdmin bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		require.True(t, ok, "claims missing from context")
		assert.Equal(t, wantSubject, claims.SubjectID)
		assert.Equal(t, wantAdmin, claims.IsAdmin)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth_NoToken(t *testing.T) {
	handler := RequireAuth(newTestGuard())(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_CookieToken(t *testing.T) {
	codec := newTestCodec()
	handler := RequireAuth(auth.NewGuard(codec))(okHandler(t, "acct-1", false))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(codec, "acct-1", false)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	codec := newTestCodec()
	handler := RequireAuth(auth.NewGuard(codec))(okHandler(t, "acct-2", true))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	r.Header.Set("Authorization", "Bearer "+issueTestToken(codec, "acct-2", true))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	handler := RequireAuth(newTestGuard())(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_malformed")
}

func TestRequireAuth_WrongSignature(t *testing.T) {
	otherCodec := auth.NewCodec([]byte("some-other-secret"), time.Hour)
	handler := RequireAuth(newTestGuard())(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(otherCodec, "acct-1", false)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_invalid_signature")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	expiredCodec := auth.NewCodecWithClock(testSigningSecret, time.Hour, func() time.Time { return past })
	handler := RequireAuth(newTestGuard())(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(expiredCodec, "acct-1", false)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}

func TestRequestID_AssignsAndEchoes(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesInboundHeader(t *testing.T) {
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-abc", GetRequestID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	r.Header.Set(RequestIDHeader, "req-abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "req-abc", w.Header().Get(RequestIDHeader))
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	codec := newTestCodec()
	handler := RequireAdmin(auth.NewGuard(codec))(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(codec, "acct-1", false)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	codec := newTestCodec()
	handler := RequireAdmin(auth.NewGuard(codec))(okHandler(t, "admin-1", true))

	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(codec, "admin-1", true)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
}

// Decode failures must win over policy: an expired admin token is 401, not 403.
func TestRequireAdmin_ExpiredAdminTokenIs401(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	expiredCodec := auth.NewCodecWithClock(testSigningSecret, time.Hour, func() time.Time { return past })
	handler := RequireAdmin(newTestGuard())(okHandler(t, "", false))

	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueTestToken(expiredCodec, "admin-1", true)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}
