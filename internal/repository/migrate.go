package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-ws/internal/model"
)

// Migrate creates or updates every table the storefront owns.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(
		&model.Size{},
		&model.Collection{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Profile{},
		&model.Transaction{},
		&model.InventoryLog{},
	), "auto migrate")
}

// SeedSizes inserts the default size labels, leaving existing rows alone.
func SeedSizes(ctx context.Context, db *gorm.DB) error {
	sizes := append([]model.Size(nil), model.DefaultSizes...)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&sizes).Error
	return errors.Wrap(err, "seed sizes")
}
