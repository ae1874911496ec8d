package service

import (
	"context"
	"errors"
	"strings"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/region"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/validator"
)

type ProfileUpdate struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

type AddressUpdate struct {
	Department string `json:"department" validate:"required"`
	Province   string `json:"province" validate:"required"`
	Address    string `json:"address" validate:"required"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type ProfileService interface {
	Update(ctx context.Context, actor *Actor, req ProfileUpdate) (*model.Profile, error)
	UpdateAddress(ctx context.Context, actor *Actor, req AddressUpdate) (*model.Profile, error)
	ChangePassword(ctx context.Context, actor *Actor, req PasswordChange) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) Update(ctx context.Context, actor *Actor, req ProfileUpdate) (*model.Profile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, NewValidationError("", validator.Fields(errs)...)
	}
	if err := s.profileRepo.UpdateDetails(ctx, actor.ID, req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, profileErr(err)
	}
	return s.reload(ctx, actor)
}

func (s *profileService) UpdateAddress(ctx context.Context, actor *Actor, req AddressUpdate) (*model.Profile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, NewValidationError("", validator.Fields(errs)...)
	}
	department, ok := region.CanonicalDepartment(req.Department)
	if !ok {
		return nil, ErrUnsupportedRegion
	}
	province, ok := region.CanonicalProvince(department, req.Province)
	if !ok {
		return nil, NewValidationError("province does not belong to department", "province")
	}
	if err := s.profileRepo.UpdateShipping(ctx, actor.ID, department, province, strings.TrimSpace(req.Address)); err != nil {
		return nil, profileErr(err)
	}
	return s.reload(ctx, actor)
}

func (s *profileService) ChangePassword(ctx context.Context, actor *Actor, req PasswordChange) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return NewValidationError("", validator.Fields(errs)...)
	}
	if len(req.NewPassword) < minPasswordLength {
		return NewValidationError("new password must be at least 6 characters", "new_password")
	}
	if req.NewPassword != req.ConfirmPassword {
		return NewValidationError("passwords do not match", "confirm_password")
	}

	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return profileErr(err)
	}
	if !profile.CheckPassword(req.CurrentPassword) {
		return ErrWrongPassword
	}
	if err := profile.SetPassword(req.NewPassword); err != nil {
		return unexpected(err)
	}
	if err := s.profileRepo.UpdatePassword(ctx, actor.ID, profile.Password); err != nil {
		return profileErr(err)
	}
	return nil
}

func (s *profileService) reload(ctx context.Context, actor *Actor) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, profileErr(err)
	}
	return profile, nil
}

func profileErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProfileNotFound
	}
	return unexpected(err)
}
