package domain

import (
	"context"
	"errors"
	"time"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// credentialResolver is shared by every domain that needs a usable Google
// token. It loads the stored credential, refreshes it when stale and keeps
// the store in sync with what the provider handed back.
type credentialResolver struct {
	credentialRepo repository.CredentialRepository
	google         *authenticator.GoogleOAuth
}

var errNotConnected = errorx.New(errorx.PermissionDenied,
	"Your Google account is not connected")

func (r *credentialResolver) freshGoogleToken(
	ctx context.Context, userID string,
) (authenticator.TokenInfo, error) {
	credential, err := r.credentialRepo.Get(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authenticator.TokenInfo{}, errNotConnected
		}

		xcontext.Logger(ctx).Errorf("Cannot load the credential: %v", err)
		return authenticator.TokenInfo{}, errorx.Unknown
	}

	if credential.Status != entity.CredentialActive {
		return authenticator.TokenInfo{}, errNotConnected
	}

	token := authenticator.TokenInfo{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		Scopes:       credential.Scopes,
		Expiry:       credential.Expiry,
	}

	token, refreshed, err := r.google.RefreshIfExpired(ctx, token)
	if err != nil {
		if errors.Is(err, authenticator.ErrTokenExpired) {
			// Terminal. Flag the record so nobody retries this refresh token.
			if err := r.credentialRepo.MarkDisconnected(ctx, userID, entity.ProviderGoogle); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot mark the credential disconnected: %v", err)
			}

			return authenticator.TokenInfo{}, errNotConnected
		}

		xcontext.Logger(ctx).Warnf("Cannot refresh the Google token: %v", err)
		return authenticator.TokenInfo{}, errorx.New(errorx.Unavailable,
			"Cannot refresh the Google credential, please try again later")
	}

	if refreshed {
		if err := r.upsertToken(ctx, userID, token); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot persist the refreshed token: %v", err)
			return authenticator.TokenInfo{}, errorx.Unknown
		}
	}

	return token, nil
}

func (r *credentialResolver) upsertToken(
	ctx context.Context, userID string, token authenticator.TokenInfo,
) error {
	return r.credentialRepo.Upsert(ctx, &entity.Credential{
		UserID:       userID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       token.Scopes,
		Expiry:       token.Expiry,
		Status:       entity.CredentialActive,
		UpdatedAt:    time.Now(),
	})
}
