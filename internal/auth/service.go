package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/wrenchworks/mechshop-backend/pkg/auth"
	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	LoginCustomer(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	LoginMechanic(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type customerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
}

type mechanicRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Mechanic, error)
}

type service struct {
	customers customerRepository
	mechanics mechanicRepository
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs the auth service.
func NewService(customers customerRepository, mechanics mechanicRepository, jwtCfg config.JWTConfig) (Service, error) {
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if mechanics == nil {
		return nil, fmt.Errorf("mechanic repository required")
	}
	return &service{
		customers: customers,
		mechanics: mechanics,
		jwtCfg:    jwtCfg,
		now:       time.Now,
	}, nil
}

// LoginCustomer verifies credentials and mints a customer token.
func (s *service) LoginCustomer(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	customer, err := s.customers.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return s.mint(customer.ID.String(), customer.PasswordHash, req.Password, enums.ActorRoleCustomer)
}

// LoginMechanic verifies credentials and mints a mechanic token.
func (s *service) LoginMechanic(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	mechanic, err := s.mechanics.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanic")
	}
	return s.mint(mechanic.ID.String(), mechanic.PasswordHash, req.Password, enums.ActorRoleMechanic)
}

func (s *service) mint(subjectID, passwordHash, password string, role enums.ActorRole) (*LoginResponse, error) {
	ok, err := security.VerifyPassword(password, passwordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	parsed, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing subject id")
	}
	payload := pkgauth.AccessTokenPayload{SubjectID: parsed, Role: role}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		SubjectID: payload.SubjectID,
		Role:      string(role),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
