package domain_test

import (
	"context"
	"testing"

	"github.com/mantra-lab/backend/internal/domain"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/testutil"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTileDomain(t *testing.T, ctx context.Context) domain.TileDomain {
	t.Helper()

	google, err := authenticator.NewGoogleOAuth(ctx, xcontext.Configs(ctx).Google)
	require.NoError(t, err)

	return domain.NewTileDomain(repository.NewCredentialRepository(), google)
}

func TestGetTiles(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	d := newTileDomain(t, ctx)
	resp, err := d.GetTiles(ctx, &model.GetTilesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Tiles, 2)

	for _, tile := range resp.Tiles {
		require.Empty(t, tile.Error)
		require.NotEmpty(t, tile.Items)
	}
}

func TestGetTilesSingleSource(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	d := newTileDomain(t, ctx)
	resp, err := d.GetTiles(ctx, &model.GetTilesRequest{Sources: "calendar"})
	require.NoError(t, err)
	require.Len(t, resp.Tiles, 1)
	require.Equal(t, "calendar", resp.Tiles[0].Type)
}

func TestGetTilesLimit(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	d := newTileDomain(t, ctx)
	resp, err := d.GetTiles(ctx, &model.GetTilesRequest{Sources: "gmail", Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Tiles[0].Items, 1)
}

func TestGetTilesUnknownSource(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	d := newTileDomain(t, ctx)
	_, err := d.GetTiles(ctx, &model.GetTilesRequest{Sources: "dropbox"})

	var xerr errorx.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, errorx.BadRequest, xerr.Code)
}

func TestGetTilesWithoutConnection(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	d := newTileDomain(t, ctx)
	_, err := d.GetTiles(ctx, &model.GetTilesRequest{})

	var xerr errorx.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, errorx.PermissionDenied, xerr.Code)
}
