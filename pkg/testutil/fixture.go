package testutil

import (
	"context"
	"time"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/pkg/xcontext"
)

var (
	User1 = entity.User{
		Base:     entity.Base{ID: "user1"},
		Email:    "alice@example.com",
		Name:     "Alice",
		IsActive: true,
	}

	User2 = entity.User{
		Base:     entity.Base{ID: "user2"},
		Email:    "bob@example.com",
		Name:     "Bob",
		IsActive: true,
	}

	Credential1 = entity.Credential{
		UserID:       User1.ID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  "user1-access-token",
		RefreshToken: "user1-refresh-token",
		Scopes:       entity.Array[string]{"openid", "email"},
		Expiry:       time.Now().Add(time.Hour),
		Status:       entity.CredentialActive,
	}

	Mantra1 = entity.Mantra{
		Base:        entity.Base{ID: "mantra1"},
		Name:        "Welcome mail",
		Description: "Sends a welcome mail when the webhook fires",
		CreatedBy:   User2.ID,
		IsActive:    true,
		Definition: entity.Map{
			"name": "Welcome mail",
			"trigger": map[string]any{
				"parameters": map[string]any{
					"email": map[string]any{"type": "string"},
				},
			},
			"nodes": []any{
				map[string]any{
					"id":   "webhook-1",
					"name": "Webhook",
					"type": "n8n-nodes-base.webhook",
					"parameters": map[string]any{
						"path": "welcome",
					},
				},
				map[string]any{
					"id":   "gmail-1",
					"name": "Send welcome",
					"type": "gmail",
					"parameters": map[string]any{
						"operation": "send",
						"to":        "${trigger.email}",
						"subject":   "Welcome!",
						"message":   "Hello from ${user.email}",
					},
				},
			},
			"connections": map[string]any{
				"Webhook": map[string]any{
					"main": []any{
						[]any{
							map[string]any{"node": "Send welcome", "index": float64(0)},
						},
					},
				},
			},
		},
	}

	Installation1 = entity.Installation{
		Base:             entity.Base{ID: "installation1"},
		MantraID:         Mantra1.ID,
		UserID:           User1.ID,
		EngineWorkflowID: "remote-workflow-1",
		IsActive:         true,
		Config:           entity.Map{"trigger": map[string]any{"email": "alice@example.com"}},
	}
)

func CreateFixtureDb(ctx context.Context) {
	db := xcontext.DB(ctx)

	if err := db.Create(&User1).Error; err != nil {
		panic(err)
	}
	if err := db.Create(&User2).Error; err != nil {
		panic(err)
	}
	if err := db.Create(&Credential1).Error; err != nil {
		panic(err)
	}
	if err := db.Create(&Mantra1).Error; err != nil {
		panic(err)
	}
	if err := db.Create(&Installation1).Error; err != nil {
		panic(err)
	}
}
