package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"go-storefront-ws/internal/model"
)

type CollectionRepository interface {
	ListEnabled(ctx context.Context) ([]model.Collection, error)
	ListCurrent(ctx context.Context, now time.Time) ([]model.Collection, error)
	FindBySlug(ctx context.Context, slug string) (*model.Collection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Collection, error)
	Create(ctx context.Context, collection *model.Collection) error
	Update(ctx context.Context, collection *model.Collection) error
}

type collectionRepo struct {
	db *gorm.DB
}

func NewCollectionRepo(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db}
}

func (r *collectionRepo) ListEnabled(ctx context.Context) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.ordered(r.db.WithContext(ctx)).Where("enabled = ?", true).Find(&collections).Error
	return collections, errors.Wrap(err, "list collections")
}

// ListCurrent returns permanent collections plus drops released at or before now that have not ended.
func (r *collectionRepo) ListCurrent(ctx context.Context, now time.Time) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.ordered(r.withProducts(r.db.WithContext(ctx))).
		Where("enabled = ?", true).
		Where(r.db.Where("is_permanent = ?", true).
			Or("release_date <= ? AND (end_date IS NULL OR end_date >= ?)", now, now)).
		Find(&collections).Error
	if err != nil {
		return nil, errors.Wrap(err, "list current collections")
	}
	for i := range collections {
		sortCollectionVariants(&collections[i])
	}
	return collections, nil
}

func (r *collectionRepo) FindBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	var c model.Collection
	err := r.withProducts(r.db.WithContext(ctx)).
		Where("slug = ? AND enabled = ?", slug, true).
		First(&c).Error
	if err != nil {
		return nil, translate(err, "find collection")
	}
	sortCollectionVariants(&c)
	return &c, nil
}

func (r *collectionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	var c model.Collection
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find collection")
	}
	return &c, nil
}

func (r *collectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(collection).Error, "create collection")
}

func (r *collectionRepo) Update(ctx context.Context, collection *model.Collection) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Products").Save(collection).Error, "update collection")
}

func (r *collectionRepo) ordered(q *gorm.DB) *gorm.DB {
	return q.Order("is_permanent DESC").Order("release_date DESC NULLS LAST")
}

func (r *collectionRepo) withProducts(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Products", "is_available = ?", true).
		Preload("Products.Variants.Size")
}

func sortCollectionVariants(c *model.Collection) {
	for i := range c.Products {
		sortVariants(&c.Products[i])
	}
}
