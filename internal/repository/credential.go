package repository

import (
	"context"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CredentialRepository interface {
	Get(ctx context.Context, userID, provider string) (*entity.Credential, error)
	Upsert(ctx context.Context, credential *entity.Credential) error
	MarkDisconnected(ctx context.Context, userID, provider string) error
	Delete(ctx context.Context, userID, provider string) error
}

type credentialRepository struct{}

func NewCredentialRepository() *credentialRepository {
	return &credentialRepository{}
}

func (r *credentialRepository) Get(ctx context.Context, userID, provider string) (*entity.Credential, error) {
	var result entity.Credential
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND provider=?", userID, provider).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Upsert writes the credential row for (user, provider). Google only returns
// a refresh token on the first consent, so an incoming empty refresh token
// never overwrites a stored one.
func (r *credentialRepository) Upsert(ctx context.Context, credential *entity.Credential) error {
	columns := []string{"access_token", "scopes", "expiry", "status", "updated_at"}
	if credential.RefreshToken != "" {
		columns = append(columns, "refresh_token")
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(credential).Error
}

func (r *credentialRepository) MarkDisconnected(ctx context.Context, userID, provider string) error {
	return xcontext.DB(ctx).
		Model(&entity.Credential{}).
		Where("user_id=? AND provider=?", userID, provider).
		Update("status", entity.CredentialDisconnected).Error
}

func (r *credentialRepository) Delete(ctx context.Context, userID, provider string) error {
	return xcontext.DB(ctx).
		Delete(&entity.Credential{}, "user_id=? AND provider=?", userID, provider).Error
}
