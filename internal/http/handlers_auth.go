package httpx

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/ports"
	"github.com/quillworks/quill-api/internal/service"
)

// stateCookieName carries the CSRF state across the federated redirect.
const stateCookieName = "oauth_state"

// stateCookieTTL bounds how long a pending federated sign-in stays valid.
const stateCookieTTL = 10 * time.Minute

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

// AuthHandlers contains the HTTP handlers for the authentication flows.
type AuthHandlers struct {
	Svc      *service.AuthService
	Identity ports.IdentityProvider // nil disables the federated routes
	Cookies  CookieConfig
	Logger   *slog.Logger
}

// Signup handles POST /api/auth/signup. A fresh account is not signed in;
// the client follows up with a sign-in request.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle         string `json:"handle"`
		ContactAddress string `json:"contact_address"`
		Secret         string `json:"secret"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Handle:         req.Handle,
		ContactAddress: req.ContactAddress,
		Secret:         req.Secret,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, account)
}

// SignIn handles POST /api/auth/signin. On success the session token is set
// as an httpOnly cookie and the account view is returned.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContactAddress string `json:"contact_address"`
		Secret         string `json:"secret"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.SignIn(r.Context(), service.SignInInput{
		ContactAddress: req.ContactAddress,
		Secret:         req.Secret,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	WriteJSON(w, http.StatusOK, result.Account)
}

// SignOut handles POST /api/auth/signout by expiring the session cookie.
// Tokens are stateless, so the cookie removal is the whole operation.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.Cookies.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// GoogleRedirect handles GET /api/auth/google: it stores a random CSRF state
// in a short-lived cookie and sends the client to the consent screen.
func (h *AuthHandlers) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.Identity == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("federated sign-in is not configured"),
		})
		return
	}

	state, err := generateState()
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal_error",
			Err:     errors.New("could not start sign-in"),
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Identity.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback. It checks the CSRF
// state, redeems the authorization code, verifies the upstream assertion, and
// signs the asserted identity in, creating the account on first contact.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Identity == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("federated sign-in is not configured"),
		})
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(r.URL.Query().Get("state"))) != 1 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("state mismatch"),
		})
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.Cookies.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	rawID, err := h.Identity.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logf(r, "code exchange failed", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "exchange_failed",
			Err:     errors.New("could not redeem authorization code"),
		})
		return
	}

	identity, err := h.Identity.VerifyAssertion(r.Context(), rawID)
	if err != nil {
		h.logf(r, "assertion verification failed", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_assertion",
			Err:     errors.New("identity assertion rejected"),
		})
		return
	}

	result, err := h.Svc.FederatedSignIn(r.Context(), identity)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	WriteJSON(w, http.StatusOK, result.Account)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := h.Cookies.TTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) logf(r *http.Request, msg string, err error) {
	if h.Logger != nil {
		h.Logger.WarnContext(r.Context(), msg, "error", err)
	}
}

// generateState returns a cryptographically random CSRF state value.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
