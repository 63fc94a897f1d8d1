package domain

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const sessionStateKey = "oauth2_state"

type AuthDomain interface {
	OAuth2URL(ctx context.Context, req *model.OAuth2URLRequest) (*model.OAuth2URLResponse, error)
	OAuth2Callback(ctx context.Context, req *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error)
	GetConnectionStatus(ctx context.Context, req *model.GetConnectionStatusRequest) (*model.GetConnectionStatusResponse, error)
	Disconnect(ctx context.Context, req *model.DisconnectRequest) (*model.DisconnectResponse, error)
}

type authDomain struct {
	credentialResolver

	userRepo repository.UserRepository
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	credentialRepo repository.CredentialRepository,
	google *authenticator.GoogleOAuth,
) *authDomain {
	return &authDomain{
		credentialResolver: credentialResolver{
			credentialRepo: credentialRepo,
			google:         google,
		},
		userRepo: userRepo,
	}
}

// OAuth2URL mints a state token, binds it to the browser session and returns
// the provider authorization URL.
func (d *authDomain) OAuth2URL(
	ctx context.Context, req *model.OAuth2URLRequest,
) (*model.OAuth2URLResponse, error) {
	if req.Provider != "" && req.Provider != d.google.Service() {
		return nil, errorx.New(errorx.BadRequest, "Unsupported provider %s", req.Provider)
	}

	session, err := xcontext.SessionStore(ctx).Get(
		xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the session: %v", err)
		return nil, errorx.Unknown
	}

	state := uuid.NewString()
	session.Values[sessionStateKey] = state
	if err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save the session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuth2URLResponse{URL: d.google.AuthCodeURL(state)}, nil
}

func (d *authDomain) OAuth2Callback(
	ctx context.Context, req *model.OAuth2CallbackRequest,
) (*model.OAuth2CallbackResponse, error) {
	if req.Error != "" {
		return d.callbackFailed(ctx, "The sign in was cancelled or rejected")
	}

	session, err := xcontext.SessionStore(ctx).Get(
		xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the session: %v", err)
		return d.callbackFailed(ctx, "Your session could not be read")
	}

	state, ok := session.Values[sessionStateKey].(string)
	delete(session.Values, sessionStateKey)
	if err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot save the session: %v", err)
	}

	if !ok || state == "" || state != req.State {
		return d.callbackFailed(ctx, "The authorization state does not match")
	}

	token, err := d.google.Exchange(ctx, req.Code)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot exchange the authorization code: %v", err)
		return d.callbackFailed(ctx, "Unable to complete the sign in with Google")
	}

	profile, err := d.google.Userinfo(ctx, token)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot resolve the user profile: %v", err)
		return d.callbackFailed(ctx, "Unable to read your Google profile")
	}

	user, err := d.findOrCreateUser(ctx, profile)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot find or create the user: %v", err)
		return d.callbackFailed(ctx, "Unable to set up your account")
	}

	// A fresh consent always writes a new active credential, even over a
	// previously disconnected one.
	if err := d.upsertToken(ctx, user.ID, token); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the credential: %v", err)
		return d.callbackFailed(ctx, "Unable to store your Google credential")
	}

	accessToken, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return d.callbackFailed(ctx, "Unable to start your session")
	}

	cfg := xcontext.Configs(ctx)
	if w := xcontext.HTTPWriter(ctx); w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.Auth.AccessToken.Name,
			Value:    accessToken,
			Path:     "/",
			Expires:  time.Now().Add(cfg.Auth.AccessToken.Expiration),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return &model.OAuth2CallbackResponse{
		RedirectURL: cfg.Auth.CompletedRedirectURL,
		User:        model.User{ID: user.ID, Email: user.Email, Name: user.Name},
		AccessToken: accessToken,
	}, nil
}

func (d *authDomain) GetConnectionStatus(
	ctx context.Context, _ *model.GetConnectionStatusRequest,
) (*model.GetConnectionStatusResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	credential, err := d.credentialRepo.Get(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetConnectionStatusResponse{Connected: false, Status: "absent"}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot load the credential: %v", err)
		return nil, errorx.Unknown
	}

	if credential.Status != entity.CredentialActive {
		return &model.GetConnectionStatusResponse{
			Connected: false,
			Status:    string(credential.Status),
		}, nil
	}

	token, err := d.freshGoogleToken(ctx, userID)
	if err != nil {
		if errors.Is(err, errNotConnected) {
			return &model.GetConnectionStatusResponse{
				Connected: false,
				Status:    string(entity.CredentialDisconnected),
			}, nil
		}

		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetConnectionStatusResponse{
		Connected: true,
		Status:    string(entity.CredentialActive),
		User:      &model.User{ID: user.ID, Email: user.Email, Name: user.Name},
		Email:     user.Email,
		Scopes:    token.Scopes,
		ExpiresAt: token.Expiry.Unix(),
	}, nil
}

// Disconnect revokes the grant on Google's side when possible and always
// marks the local record disconnected.
func (d *authDomain) Disconnect(
	ctx context.Context, _ *model.DisconnectRequest,
) (*model.DisconnectResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	credential, err := d.credentialRepo.Get(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No Google connection to disconnect")
		}

		xcontext.Logger(ctx).Errorf("Cannot load the credential: %v", err)
		return nil, errorx.Unknown
	}

	token := authenticator.TokenInfo{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
	}
	if err := d.google.Revoke(ctx, token); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot revoke the Google grant: %v", err)
	}

	if err := d.credentialRepo.MarkDisconnected(ctx, userID, entity.ProviderGoogle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark the credential disconnected: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DisconnectResponse{}, nil
}

func (d *authDomain) findOrCreateUser(
	ctx context.Context, profile authenticator.UserProfile,
) (*entity.User, error) {
	user, err := d.userRepo.GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &entity.User{
		Email:    profile.Email,
		Name:     profile.Name,
		IsActive: true,
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (d *authDomain) callbackFailed(
	ctx context.Context, message string,
) (*model.OAuth2CallbackResponse, error) {
	failedURL := xcontext.Configs(ctx).Auth.FailedRedirectURL
	if failedURL == "" {
		return nil, errorx.New(errorx.Unauthenticated, "%s", message)
	}

	return &model.OAuth2CallbackResponse{
		RedirectURL: failedURL + "?error=" + url.QueryEscape(message),
	}, nil
}
