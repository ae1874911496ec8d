package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/jwt"
	"go-storefront-ws/pkg/validator"
)

const minPasswordLength = 6

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   *model.Profile `json:"profile"`
	IsAdmin   bool           `json:"is_admin"`
}

// Me is the current user view.
type Me struct {
	Profile *model.Profile `json:"profile"`
	IsAdmin bool           `json:"is_admin"`
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, actor *Actor) error
	Me(ctx context.Context, actor *Actor) (*Me, error)
	Authenticate(ctx context.Context, token string) (*Actor, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	tokens      *jwt.Manager
	admins      AdminList
	log         logrus.FieldLogger
}

func NewAuthService(profileRepo repository.ProfileRepository, tokens *jwt.Manager, admins AdminList, log logrus.FieldLogger) AuthService {
	return &authService{
		profileRepo: profileRepo,
		tokens:      tokens,
		admins:      admins,
		log:         log.WithField("component", "auth"),
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, NewValidationError("", validator.Fields(errs)...)
	}

	_, err := s.profileRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, unexpected(err)
	}

	profile := &model.Profile{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		TokenVersion: uuid.NewString(),
	}
	if err := profile.SetPassword(req.Password); err != nil {
		return nil, unexpected(err)
	}
	profile.CreatedBy = req.Email
	profile.UpdatedBy = req.Email
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, unexpected(err)
	}

	s.log.WithField("profile_id", profile.ID).Info("profile created")
	return s.issue(profile)
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, NewValidationError("email and password are required", "email", "password")
	}

	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, unexpected(err)
	}
	if !profile.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Profiles created by the operator CLI start without a token version.
	if profile.TokenVersion == "" {
		profile.TokenVersion = uuid.NewString()
		if err := s.profileRepo.UpdateTokenVersion(ctx, profile.ID, profile.TokenVersion); err != nil {
			return nil, unexpected(err)
		}
	}
	return s.issue(profile)
}

// Logout rotates the token version, so every token issued so far stops working.
func (s *authService) Logout(ctx context.Context, actor *Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.profileRepo.UpdateTokenVersion(ctx, actor.ID, uuid.NewString()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return unexpected(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, actor *Actor) (*Me, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, unexpected(err)
	}
	return &Me{Profile: profile, IsAdmin: s.admins.Contains(profile.Email)}, nil
}

// Authenticate verifies the token signature and that it has not been revoked by a sign-out.
func (s *authService) Authenticate(ctx context.Context, token string) (*Actor, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profileRepo.FindByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, unexpected(err)
	}
	if profile.TokenVersion != claims.TokenVersion {
		return nil, ErrUnauthenticated
	}
	return &Actor{
		ID:      profile.ID,
		Email:   profile.Email,
		Name:    profile.FullName(),
		IsAdmin: s.admins.Contains(profile.Email),
	}, nil
}

func (s *authService) issue(profile *model.Profile) (*Session, error) {
	token, err := s.tokens.Generate(profile.ID, profile.Email, profile.FullName(), profile.TokenVersion)
	if err != nil {
		return nil, unexpected(err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
		Profile:   profile,
		IsAdmin:   s.admins.Contains(profile.Email),
	}, nil
}
