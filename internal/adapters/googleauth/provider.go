// Package googleauth implements the IdentityProvider port against Google's
// OIDC endpoints. ID token verification happens here; the service layer only
// ever sees an already-verified assertion.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/quillworks/quill-api/config"
	"github.com/quillworks/quill-api/internal/ports"
)

// Provider verifies Google ID tokens and redeems authorization codes.
type Provider struct {
	oauth    *oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

// NewProvider discovers the issuer's endpoints and builds a Provider.
func NewProvider(ctx context.Context, cfg config.GoogleOAuthConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	op, err := gooidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
			Endpoint:     op.Endpoint(),
		},
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL returns the Google consent URL carrying the CSRF state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// ExchangeCode redeems an authorization code and returns the raw ID token.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is required")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code for token: %w", err)
	}
	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return "", errors.New("token response missing id_token")
	}
	return rawID, nil
}

// idTokenClaims is the subset of Google ID token claims the platform uses.
type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyAssertion checks the ID token signature, issuer, audience, and expiry
// and returns the asserted identity.
func (p *Provider) VerifyAssertion(ctx context.Context, rawToken string) (ports.AssertedIdentity, error) {
	if rawToken == "" {
		return ports.AssertedIdentity{}, errors.New("id token is required")
	}

	idTok, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		return ports.AssertedIdentity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return ports.AssertedIdentity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if claims.Email == "" {
		return ports.AssertedIdentity{}, errors.New("id_token missing email claim")
	}

	return ports.AssertedIdentity{
		Name:      claims.Name,
		Address:   claims.Email,
		AvatarURL: claims.Picture,
	}, nil
}
