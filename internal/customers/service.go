package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
	"github.com/wrenchworks/mechshop-backend/pkg/security"
)

// Service exposes customer account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*CustomerListDTO, error)
}

// RegisterInput holds the validated payload to create a customer.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Address  *string
	Password string
}

// UpdateInput holds optional mutation values for a customer.
type UpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Password *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	pwCfg    config.PasswordConfig
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, dbClient *db.Client, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, pwCfg: pwCfg}, nil
}

// Register creates a customer account with a hashed password.
func (s *service) Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error) {
	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	customer := &models.Customer{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		Phone:        input.Phone,
		Address:      input.Address,
		PasswordHash: hash,
	}

	if _, err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "customers_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return NewCustomerDTO(customer), nil
}

// Get loads a single customer.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return NewCustomerDTO(customer), nil
}

// Update applies the provided fields to the customer.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		customer.PasswordHash = hash
	}

	if _, err := s.repo.Update(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "customers_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
	}
	return NewCustomerDTO(customer), nil
}

// Delete removes the customer and every ticket they own in one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteTickets(ctx, id); err != nil {
			return err
		}
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting customer")
	}
	return nil
}

// List returns a page of customers.
func (s *service) List(ctx context.Context, params pagination.Params) (*CustomerListDTO, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	out := &CustomerListDTO{Customers: make([]CustomerDTO, 0, len(rows))}
	for i := range rows {
		out.Customers = append(out.Customers, *NewCustomerDTO(&rows[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		out.NextCursor = &encoded
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
