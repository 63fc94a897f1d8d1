package repository_test

import (
	"testing"
	"time"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCredentialUpsertPreservesRefreshToken(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCredentialRepository()

	// A refresh grant response usually omits the refresh token.
	newExpiry := time.Now().Add(2 * time.Hour)
	err := repo.Upsert(ctx, &entity.Credential{
		UserID:      testutil.User1.ID,
		Provider:    entity.ProviderGoogle,
		AccessToken: "rotated-access-token",
		Scopes:      entity.Array[string]{"openid", "email"},
		Expiry:      newExpiry,
		Status:      entity.CredentialActive,
	})
	require.NoError(t, err)

	credential, err := repo.Get(ctx, testutil.User1.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, "rotated-access-token", credential.AccessToken)
	require.Equal(t, "user1-refresh-token", credential.RefreshToken)
	require.WithinDuration(t, newExpiry, credential.Expiry, time.Second)
}

func TestCredentialUpsertReplacesRefreshToken(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCredentialRepository()

	err := repo.Upsert(ctx, &entity.Credential{
		UserID:       testutil.User1.ID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  "reconsented-access-token",
		RefreshToken: "reconsented-refresh-token",
		Expiry:       time.Now().Add(time.Hour),
		Status:       entity.CredentialActive,
	})
	require.NoError(t, err)

	credential, err := repo.Get(ctx, testutil.User1.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, "reconsented-refresh-token", credential.RefreshToken)
}

func TestCredentialUpsertCreates(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCredentialRepository()

	err := repo.Upsert(ctx, &entity.Credential{
		UserID:       testutil.User2.ID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  "user2-access-token",
		RefreshToken: "user2-refresh-token",
		Expiry:       time.Now().Add(time.Hour),
		Status:       entity.CredentialActive,
	})
	require.NoError(t, err)

	credential, err := repo.Get(ctx, testutil.User2.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, entity.CredentialActive, credential.Status)
}

func TestCredentialMarkDisconnected(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCredentialRepository()

	require.NoError(t, repo.MarkDisconnected(ctx, testutil.User1.ID, entity.ProviderGoogle))

	credential, err := repo.Get(ctx, testutil.User1.ID, entity.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, entity.CredentialDisconnected, credential.Status)

	// The tokens stay on the row for auditing; only the status flips.
	require.Equal(t, "user1-refresh-token", credential.RefreshToken)
}

func TestCredentialGetAbsent(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCredentialRepository()

	_, err := repo.Get(ctx, testutil.User2.ID, entity.ProviderGoogle)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
