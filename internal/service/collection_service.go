package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/validator"
)

type CollectionService interface {
	List(ctx context.Context) ([]model.Collection, error)
	Current(ctx context.Context) ([]model.Collection, error)
	GetBySlug(ctx context.Context, slug string) (*model.Collection, error)
	Create(ctx context.Context, actor *Actor, c *model.Collection) error
	Update(ctx context.Context, actor *Actor, id uuid.UUID, c *model.Collection) (*model.Collection, error)
}

type collectionService struct {
	repo repository.CollectionRepository
	now  func() time.Time
}

func NewCollectionService(repo repository.CollectionRepository) CollectionService {
	return &collectionService{repo: repo, now: time.Now}
}

func (s *collectionService) List(ctx context.Context) ([]model.Collection, error) {
	collections, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, unexpected(err)
	}
	return collections, nil
}

func (s *collectionService) Current(ctx context.Context) ([]model.Collection, error) {
	collections, err := s.repo.ListCurrent(ctx, s.now())
	if err != nil {
		return nil, unexpected(err)
	}
	return collections, nil
}

func (s *collectionService) GetBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, unexpected(err)
	}
	return c, nil
}

func (s *collectionService) Create(ctx context.Context, actor *Actor, c *model.Collection) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := validateCollection(c); err != nil {
		return err
	}
	c.CreatedBy = actor.AuditName()
	c.UpdatedBy = actor.AuditName()
	if err := s.repo.Create(ctx, c); err != nil {
		return unexpected(err)
	}
	return nil
}

func (s *collectionService) Update(ctx context.Context, actor *Actor, id uuid.UUID, c *model.Collection) (*model.Collection, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, unexpected(err)
	}
	if err := validateCollection(c); err != nil {
		return nil, err
	}

	existing.Name = c.Name
	existing.Slug = c.Slug
	existing.Description = c.Description
	existing.IsPermanent = c.IsPermanent
	existing.ReleaseDate = c.ReleaseDate
	existing.EndDate = c.EndDate
	existing.Enabled = c.Enabled
	existing.UpdatedBy = actor.AuditName()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, unexpected(err)
	}
	return existing, nil
}

func validateCollection(c *model.Collection) error {
	if errs := validator.ValidateStruct(c); len(errs) > 0 {
		return NewValidationError("", validator.Fields(errs)...)
	}
	if !c.IsPermanent && c.ReleaseDate == nil {
		return NewValidationError("a limited collection needs a release date", "release_date")
	}
	if c.ReleaseDate != nil && c.EndDate != nil && c.EndDate.Before(*c.ReleaseDate) {
		return NewValidationError("end date must not precede the release date", "end_date")
	}
	return nil
}
