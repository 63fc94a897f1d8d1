package repository

import (
	"context"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/pkg/xcontext"
)

type InstallationRepository interface {
	Create(ctx context.Context, installation *entity.Installation) error
	GetByID(ctx context.Context, id string) (*entity.Installation, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Installation, error)
	GetByMantraAndUser(ctx context.Context, mantraID, userID string) (*entity.Installation, error)
	Deactivate(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
}

type installationRepository struct{}

func NewInstallationRepository() *installationRepository {
	return &installationRepository{}
}

func (r *installationRepository) Create(ctx context.Context, installation *entity.Installation) error {
	return xcontext.DB(ctx).Create(installation).Error
}

func (r *installationRepository) GetByID(ctx context.Context, id string) (*entity.Installation, error) {
	var result entity.Installation
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *installationRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Installation, error) {
	var result []entity.Installation
	err := xcontext.DB(ctx).
		Joins("Mantra").
		Where("installations.user_id=?", userID).
		Order("installations.created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *installationRepository) GetByMantraAndUser(ctx context.Context, mantraID, userID string) (*entity.Installation, error) {
	var result entity.Installation
	err := xcontext.DB(ctx).
		Take(&result, "mantra_id=? AND user_id=?", mantraID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *installationRepository) Deactivate(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Model(&entity.Installation{}).
		Where("id=?", id).
		Update("is_active", false).Error
}

func (r *installationRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Delete(&entity.Installation{}, "id=?", id).Error
}
