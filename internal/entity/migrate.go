package entity

import (
	"context"

	"github.com/mantra-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Credential{},
		&Mantra{},
		&Installation{},
	)
}
