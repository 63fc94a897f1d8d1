package repository

import (
	"context"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/pkg/xcontext"
)

type MantraRepository interface {
	Create(ctx context.Context, mantra *entity.Mantra) error
	GetByID(ctx context.Context, id string) (*entity.Mantra, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Mantra, error)
}

type mantraRepository struct{}

func NewMantraRepository() *mantraRepository {
	return &mantraRepository{}
}

func (r *mantraRepository) Create(ctx context.Context, mantra *entity.Mantra) error {
	return xcontext.DB(ctx).Create(mantra).Error
}

func (r *mantraRepository) GetByID(ctx context.Context, id string) (*entity.Mantra, error) {
	var result entity.Mantra
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *mantraRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Mantra, error) {
	var result []entity.Mantra
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
