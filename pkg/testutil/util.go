package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/mantra-lab/backend/config"
	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/logger"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext(t *testing.T) context.Context {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))

	require.NoError(t, entity.MigrateTable(ctx))

	return ctx
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "test-session",
		},
		Google: config.OAuth2Configs{
			Name:         "google",
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			RedirectURL:  "http://localhost:8080/auth/callback",
		},
		Engine: config.EngineConfigs{
			BaseURL:        "http://localhost:5678",
			APIKey:         "test-engine-key",
			Timeout:        5 * time.Second,
			RetryMax:       3,
			RetryBaseDelay: time.Millisecond,
		},
		Adapter: config.AdapterConfigs{
			TestMode: true,
			Timeout:  5 * time.Second,
		},
	}
}
