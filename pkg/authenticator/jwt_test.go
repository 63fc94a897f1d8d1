package authenticator

import (
	"testing"
	"time"

	"github.com/mantra-lab/backend/config"
	"github.com/stretchr/testify/require"
)

type tokenObject struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestTokenEngineRoundTrip(t *testing.T) {
	engine := NewTokenEngine[tokenObject]("secret", config.TokenConfigs{Expiration: time.Hour})

	token, err := engine.Generate("user1", tokenObject{ID: "user1", Email: "alice@example.com"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)
	require.Equal(t, "alice@example.com", obj.Email)
}

func TestTokenEngineRejectsWrongSecret(t *testing.T) {
	engine := NewTokenEngine[tokenObject]("secret", config.TokenConfigs{Expiration: time.Hour})
	other := NewTokenEngine[tokenObject]("another-secret", config.TokenConfigs{Expiration: time.Hour})

	token, err := engine.Generate("user1", tokenObject{ID: "user1"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestTokenEngineRejectsExpired(t *testing.T) {
	engine := NewTokenEngine[tokenObject]("secret", config.TokenConfigs{Expiration: -time.Minute})

	token, err := engine.Generate("user1", tokenObject{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
