package authenticator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/mantra-lab/backend/config"
	"golang.org/x/oauth2"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultRevokeURL   = "https://oauth2.googleapis.com/revoke"
	defaultUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	defaultRefreshSkew = time.Minute
	defaultTimeout     = 30 * time.Second
)

var defaultScopes = []string{
	oidc.ScopeOpenID,
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/calendar",
}

// TokenInfo is the provider-independent view of an OAuth2 token pair.
type TokenInfo struct {
	AccessToken  string
	RefreshToken string
	Scopes       []string
	Expiry       time.Time

	raw *oauth2.Token
}

type UserProfile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// GoogleOAuth manages the three-legged authorization-code flow and the token
// lifecycle for one Google OAuth2 application.
type GoogleOAuth struct {
	name   string
	config oauth2.Config

	verifier    *oidc.IDTokenVerifier
	client      *http.Client
	revokeURL   string
	userinfoURL string
	skew        time.Duration
}

func NewGoogleOAuth(ctx context.Context, cfg config.OAuth2Configs) (*GoogleOAuth, error) {
	endpoint := oauth2.Endpoint{
		AuthURL:  orDefault(cfg.AuthURL, defaultAuthURL),
		TokenURL: orDefault(cfg.TokenURL, defaultTokenURL),
	}

	var verifier *oidc.IDTokenVerifier
	if cfg.Issuer != "" {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("cannot discover oauth2 issuer: %w", err)
		}

		endpoint = provider.Endpoint()
		verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	skew := cfg.RefreshSkew
	if skew == 0 {
		skew = defaultRefreshSkew
	}

	return &GoogleOAuth{
		name: orDefault(cfg.Name, "google"),
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
		verifier:    verifier,
		client:      &http.Client{Timeout: timeout},
		revokeURL:   orDefault(cfg.RevokeURL, defaultRevokeURL),
		userinfoURL: orDefault(cfg.UserinfoURL, defaultUserinfoURL),
		skew:        skew,
	}, nil
}

func (g *GoogleOAuth) Service() string {
	return g.name
}

// AuthCodeURL builds the authorization URL. access_type=offline and
// prompt=consent force Google to issue a refresh token even on re-consent.
// The function has no side effects; the same inputs produce the same URL.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a token pair. The refresh token
// may be absent; callers must then preserve any previously stored one.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (TokenInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return TokenInfo{}, ExchangeError{Err: err}
	}

	return g.tokenInfo(token), nil
}

// RefreshIfExpired returns the token unchanged while it is still live (expiry
// minus skew). Otherwise it performs a refresh-token grant. The second return
// value reports whether a refresh happened, so callers know to persist the
// result.
func (g *GoogleOAuth) RefreshIfExpired(ctx context.Context, token TokenInfo) (TokenInfo, bool, error) {
	if time.Now().Before(token.Expiry.Add(-g.skew)) {
		return token, false, nil
	}

	if token.RefreshToken == "" {
		return TokenInfo{}, false, RefreshError{Reason: "no refresh token stored"}
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {g.config.ClientID},
		"client_secret": {g.config.ClientSecret},
		"refresh_token": {token.RefreshToken},
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, g.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenInfo{}, false, RefreshError{Reason: "cannot build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return TokenInfo{}, false, RefreshError{Reason: "token endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenInfo{}, false, RefreshError{Reason: "cannot read response", Err: err}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &failure)
		if failure.Error == "invalid_grant" || failure.Error == "invalid_token" {
			return TokenInfo{}, false, ErrTokenExpired
		}

		return TokenInfo{}, false, RefreshError{
			Reason: fmt.Sprintf("token endpoint returned %d (%s)", resp.StatusCode, failure.Error),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return TokenInfo{}, false, RefreshError{
			Reason: fmt.Sprintf("token endpoint returned %d", resp.StatusCode),
		}
	}

	var granted struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		Scope        string `json:"scope"`
	}
	if err := json.Unmarshal(body, &granted); err != nil || granted.AccessToken == "" {
		return TokenInfo{}, false, RefreshError{Reason: "malformed token response", Err: err}
	}

	refreshed := TokenInfo{
		AccessToken: granted.AccessToken,
		// Google usually omits the refresh token on a refresh grant; keep the
		// one that worked.
		RefreshToken: orDefault(granted.RefreshToken, token.RefreshToken),
		Scopes:       token.Scopes,
		Expiry:       time.Now().Add(time.Duration(granted.ExpiresIn) * time.Second),
	}
	if granted.Scope != "" {
		refreshed.Scopes = strings.Fields(granted.Scope)
	}

	return refreshed, true, nil
}

// Revoke invalidates the grant on the provider side. Failures here do not
// prevent local disconnection; callers log them and carry on.
func (g *GoogleOAuth) Revoke(ctx context.Context, token TokenInfo) error {
	// Revoking the refresh token invalidates the whole grant.
	target := orDefault(token.RefreshToken, token.AccessToken)
	if target == "" {
		return errors.New("no token to revoke")
	}

	form := url.Values{"token": {target}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, g.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocation endpoint returned %d", resp.StatusCode)
	}

	return nil
}

// Userinfo resolves the profile behind a token, preferring the verified
// id_token when the issuer is configured.
func (g *GoogleOAuth) Userinfo(ctx context.Context, token TokenInfo) (UserProfile, error) {
	if g.verifier != nil && token.raw != nil {
		if rawIDToken, ok := token.raw.Extra("id_token").(string); ok {
			idToken, err := g.verifier.Verify(ctx, rawIDToken)
			if err != nil {
				return UserProfile{}, fmt.Errorf("invalid id token: %w", err)
			}

			var profile UserProfile
			if err := idToken.Claims(&profile); err != nil {
				return UserProfile{}, fmt.Errorf("invalid id token claims: %w", err)
			}

			return profile, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL, nil)
	if err != nil {
		return UserProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return UserProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UserProfile{}, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return UserProfile{}, fmt.Errorf("malformed userinfo response: %w", err)
	}

	return profile, nil
}

func (g *GoogleOAuth) tokenInfo(token *oauth2.Token) TokenInfo {
	info := TokenInfo{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       g.config.Scopes,
		Expiry:       token.Expiry,
		raw:          token,
	}

	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		info.Scopes = strings.Fields(scope)
	}

	return info
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
