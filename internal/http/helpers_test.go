package httpx

import (
	"net/http"
	"time"

	"github.com/quillworks/quill-api/internal/domain/auth"
)

var testSigningSecret = []byte("httpx-test-signing-secret")

func newTestCodec() *auth.Codec {
	return auth.NewCodec(testSigningSecret, time.Hour)
}

func newTestGuard() *auth.Guard {
	return auth.NewGuard(newTestCodec())
}

// withClaims attaches decoded claims to the request, mimicking what the auth
// middleware does for routed handlers.
func withClaims(r *http.Request, subjectID string, isAdmin bool) *http.Request {
	claims := auth.Claims{SubjectID: subjectID, IsAdmin: isAdmin}
	return r.WithContext(SetClaimsInContext(r.Context(), claims))
}

func issueTestToken(codec *auth.Codec, subjectID string, isAdmin bool) string {
	token, err := codec.Issue(subjectID, isAdmin)
	if err != nil {
		panic(err)
	}
	return token
}
