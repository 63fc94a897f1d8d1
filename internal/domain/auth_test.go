package domain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mantra-lab/backend/internal/domain"
	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/testutil"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newGoogleProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "carol-access-token",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "carol-refresh-token",
		}))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"sub":   "google-sub-carol",
			"email": "carol@example.com",
			"name":  "Carol",
		}))
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newAuthDomain(t *testing.T, ctx context.Context, providerURL string) domain.AuthDomain {
	t.Helper()

	cfg := xcontext.Configs(ctx).Google
	cfg.AuthURL = providerURL + "/auth"
	cfg.TokenURL = providerURL + "/token"
	cfg.UserinfoURL = providerURL + "/userinfo"
	cfg.RevokeURL = providerURL + "/revoke"

	google, err := authenticator.NewGoogleOAuth(ctx, cfg)
	require.NoError(t, err)

	return domain.NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewCredentialRepository(),
		google,
	)
}

// withBrowser attaches a fake browser round trip to the context, carrying
// over any cookies from a previous response.
func withBrowser(ctx context.Context, target string, cookies []*http.Cookie) (context.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)

	return ctx, w
}

func TestOAuth2FullFlow(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx, w := withBrowser(baseCtx, "/auth/url", nil)
	urlResp, err := d.OAuth2URL(ctx, &model.OAuth2URLRequest{Provider: "google"})
	require.NoError(t, err)

	authURL, err := url.Parse(urlResp.URL)
	require.NoError(t, err)
	state := authURL.Query().Get("state")
	require.NotEmpty(t, state)

	// The browser comes back with the state bound to its session cookie.
	ctx, w2 := withBrowser(baseCtx, "/auth/callback", w.Result().Cookies())
	resp, err := d.OAuth2Callback(ctx, &model.OAuth2CallbackRequest{
		State: state,
		Code:  "auth-code",
	})
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", resp.User.Email)
	require.NotEmpty(t, resp.AccessToken)

	info, err := xcontext.TokenEngine(baseCtx).Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, info.ID)

	var hasCookie bool
	for _, cookie := range w2.Result().Cookies() {
		if cookie.Name == xcontext.Configs(baseCtx).Auth.AccessToken.Name {
			hasCookie = cookie.Value == resp.AccessToken
		}
	}
	require.True(t, hasCookie)

	user, err := repository.NewUserRepository().GetByEmail(baseCtx, "carol@example.com")
	require.NoError(t, err)

	credential, err := repository.NewCredentialRepository().
		Get(baseCtx, user.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, "carol-access-token", credential.AccessToken)
	require.Equal(t, "carol-refresh-token", credential.RefreshToken)
	require.Equal(t, entity.CredentialActive, credential.Status)
}

func TestOAuth2URLRejectsUnknownProvider(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx, _ := withBrowser(baseCtx, "/auth/url", nil)
	_, err := d.OAuth2URL(ctx, &model.OAuth2URLRequest{Provider: "github"})

	var xerr errorx.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, errorx.BadRequest, xerr.Code)
}

func TestOAuth2CallbackRejectsForeignState(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx, w := withBrowser(baseCtx, "/auth/url", nil)
	_, err := d.OAuth2URL(ctx, &model.OAuth2URLRequest{})
	require.NoError(t, err)

	ctx, _ = withBrowser(baseCtx, "/auth/callback", w.Result().Cookies())
	_, err = d.OAuth2Callback(ctx, &model.OAuth2CallbackRequest{
		State: "forged-state",
		Code:  "auth-code",
	})

	var xerr errorx.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, errorx.Unauthenticated, xerr.Code)
}

func TestOAuth2CallbackRedirectsFailures(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	cfg := xcontext.Configs(baseCtx)
	cfg.Auth.FailedRedirectURL = "/login"
	baseCtx = xcontext.WithConfigs(baseCtx, cfg)

	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx, _ := withBrowser(baseCtx, "/auth/callback", nil)
	resp, err := d.OAuth2Callback(ctx, &model.OAuth2CallbackRequest{
		Error: "access_denied",
	})
	require.NoError(t, err)

	location, err := url.Parse(resp.RedirectLocation())
	require.NoError(t, err)
	require.Equal(t, "/login", location.Path)
	require.NotEmpty(t, location.Query().Get("error"))
}

func TestGetConnectionStatus(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	testutil.CreateFixtureDb(baseCtx)
	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx := xcontext.WithRequestUserID(baseCtx, testutil.User1.ID)
	resp, err := d.GetConnectionStatus(ctx, &model.GetConnectionStatusRequest{})
	require.NoError(t, err)
	require.True(t, resp.Connected)
	require.Equal(t, string(entity.CredentialActive), resp.Status)
	require.Equal(t, testutil.User1.Email, resp.Email)
	require.NotNil(t, resp.User)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
	require.Equal(t, testutil.User1.Email, resp.User.Email)
	require.Equal(t, testutil.User1.Name, resp.User.Name)

	ctx = xcontext.WithRequestUserID(baseCtx, testutil.User2.ID)
	resp, err = d.GetConnectionStatus(ctx, &model.GetConnectionStatusRequest{})
	require.NoError(t, err)
	require.False(t, resp.Connected)
	require.Equal(t, "absent", resp.Status)
}

func TestDisconnect(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	testutil.CreateFixtureDb(baseCtx)
	provider := newGoogleProvider(t)
	d := newAuthDomain(t, baseCtx, provider.URL)

	ctx := xcontext.WithRequestUserID(baseCtx, testutil.User1.ID)
	_, err := d.Disconnect(ctx, &model.DisconnectRequest{})
	require.NoError(t, err)

	credential, err := repository.NewCredentialRepository().
		Get(baseCtx, testutil.User1.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, entity.CredentialDisconnected, credential.Status)

	status, err := d.GetConnectionStatus(ctx, &model.GetConnectionStatusRequest{})
	require.NoError(t, err)
	require.False(t, status.Connected)
	require.Equal(t, string(entity.CredentialDisconnected), status.Status)
}

func TestDisconnectToleratesRevocationFailure(t *testing.T) {
	baseCtx := testutil.MockContext(t)
	testutil.CreateFixtureDb(baseCtx)

	// A provider that is already down must not block local disconnection.
	provider := newGoogleProvider(t)
	providerURL := provider.URL
	provider.Close()

	d := newAuthDomain(t, baseCtx, providerURL)

	ctx := xcontext.WithRequestUserID(baseCtx, testutil.User1.ID)
	_, err := d.Disconnect(ctx, &model.DisconnectRequest{})
	require.NoError(t, err)

	credential, err := repository.NewCredentialRepository().
		Get(baseCtx, testutil.User1.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, entity.CredentialDisconnected, credential.Status)
}
