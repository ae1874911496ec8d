package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"go-storefront-ws/internal/model"
)

type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	UpdateDetails(ctx context.Context, id uuid.UUID, firstName, lastName, phone string) error
	UpdateShipping(ctx context.Context, id uuid.UUID, department, province, address string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(ctx context.Context, id uuid.UUID, version string) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db}
}

func (r *profileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&profile).Error; err != nil {
		return nil, translate(err, "find profile by email")
	}
	return &profile, nil
}

func (r *profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find profile")
	}
	return &profile, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	profile.Email = normalizeEmail(profile.Email)
	return errors.Wrap(r.db.WithContext(ctx).Create(profile).Error, "create profile")
}

func (r *profileRepo) UpdateDetails(ctx context.Context, id uuid.UUID, firstName, lastName, phone string) error {
	return r.update(ctx, id, map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
	})
}

func (r *profileRepo) UpdateShipping(ctx context.Context, id uuid.UUID, department, province, address string) error {
	return r.update(ctx, id, map[string]interface{}{
		"department": department,
		"province":   province,
		"address":    address,
	})
}

func (r *profileRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.update(ctx, id, map[string]interface{}{"password": hashedPassword})
}

func (r *profileRepo) UpdateTokenVersion(ctx context.Context, id uuid.UUID, version string) error {
	return r.update(ctx, id, map[string]interface{}{"token_version": version})
}

func (r *profileRepo) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update profile")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
