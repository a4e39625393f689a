// Package oidc is an OpenID Connect login provider configured by issuer
// discovery (Google, Keycloak, Supabase-independent IdPs).
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"learner-portal/internal/auth"
	"learner-portal/internal/logger"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type Config struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURL  string
	// PublicBaseURL rewrites the browser-facing authorization endpoint when
	// the issuer is only reachable on an internal address.
	PublicBaseURL string
}

type Provider struct {
	name        string
	oauthConfig *oauth2.Config
	verifier    *gooidc.IDTokenVerifier
}

// New runs discovery against the issuer.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Name == "" || cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, errors.New("oidc config missing required fields")
	}

	discovered, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s oidc provider: %w", cfg.Name, err)
	}

	endpoint := discovered.Endpoint()
	if cfg.PublicBaseURL != "" {
		endpoint.AuthURL = rebase(endpoint.AuthURL, cfg.PublicBaseURL)
	}

	return newProvider(cfg, endpoint, discovered.Verifier(&gooidc.Config{ClientID: cfg.ClientID})), nil
}

func newProvider(cfg Config, endpoint oauth2.Endpoint, verifier *gooidc.IDTokenVerifier) *Provider {
	return &Provider{
		name: cfg.Name,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
		verifier: verifier,
	}
}

// rebase swaps the scheme and host of authURL for those of publicBase.
func rebase(authURL, publicBase string) string {
	u, err := url.Parse(authURL)
	if err != nil {
		return authURL
	}
	pub, err := url.Parse(publicBase)
	if err != nil || pub.Host == "" {
		return authURL
	}
	u.Scheme, u.Host = pub.Scheme, pub.Host
	return u.String()
}

func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL builds the authorization URL with PKCE S256 parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%s did not return id_token", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s id_token verification failed: %w", p.name, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", p.name, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%s id_token missing required claims", p.name)
	}

	logger.InfoContext(ctx, "oidc identity verified", map[string]any{
		"provider":       p.name,
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       p.name,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
	}, nil
}
