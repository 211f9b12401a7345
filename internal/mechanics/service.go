package mechanics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
	"github.com/wrenchworks/mechshop-backend/pkg/security"
)

// Service exposes mechanic account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*MechanicDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MechanicDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MechanicDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*MechanicListDTO, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error)
}

// RegisterInput holds the validated payload to create a mechanic.
type RegisterInput struct {
	Name       string
	Email      string
	Phone      *string
	Specialty  *string
	HourlyRate decimal.Decimal
	Password   string
}

// UpdateInput holds optional mutation values for a mechanic.
type UpdateInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Specialty  *string
	HourlyRate *decimal.Decimal
	Password   *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	pwCfg    config.PasswordConfig
}

// NewService constructs a mechanic service instance.
func NewService(repo *Repository, dbClient *db.Client, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("mechanic repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, pwCfg: pwCfg}, nil
}

// Register creates a mechanic account with a hashed password.
func (s *service) Register(ctx context.Context, input RegisterInput) (*MechanicDTO, error) {
	if input.HourlyRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hourly_rate cannot be negative")
	}
	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	mechanic := &models.Mechanic{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		Phone:        input.Phone,
		Specialty:    input.Specialty,
		HourlyRate:   input.HourlyRate,
		PasswordHash: hash,
	}

	if _, err := s.repo.Create(ctx, mechanic); err != nil {
		if db.IsUniqueViolation(err, "mechanics_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating mechanic")
	}
	return NewMechanicDTO(mechanic), nil
}

// Get loads a single mechanic.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*MechanicDTO, error) {
	mechanic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanic")
	}
	return NewMechanicDTO(mechanic), nil
}

// Update applies the provided fields to the mechanic.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MechanicDTO, error) {
	mechanic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanic")
	}

	if input.Name != nil {
		mechanic.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		mechanic.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		mechanic.Phone = input.Phone
	}
	if input.Specialty != nil {
		mechanic.Specialty = input.Specialty
	}
	if input.HourlyRate != nil {
		if input.HourlyRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "hourly_rate cannot be negative")
		}
		mechanic.HourlyRate = *input.HourlyRate
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		mechanic.PasswordHash = hash
	}

	if _, err := s.repo.Update(ctx, mechanic); err != nil {
		if db.IsUniqueViolation(err, "mechanics_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating mechanic")
	}
	return NewMechanicDTO(mechanic), nil
}

// Delete removes the mechanic. Ticket assignments disappear with the row via
// the DB cascade; ticket status is reconciled lazily the next time the ticket
// workflow touches the ticket.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanic")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting mechanic")
	}
	return nil
}

// List returns a page of mechanics.
func (s *service) List(ctx context.Context, params pagination.Params) (*MechanicListDTO, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing mechanics")
	}

	out := &MechanicListDTO{Mechanics: make([]MechanicDTO, 0, len(rows))}
	for i := range rows {
		out.Mechanics = append(out.Mechanics, *NewMechanicDTO(&rows[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		out.NextCursor = &encoded
	}
	return out, nil
}

// Leaderboard returns mechanics ranked by assignment count.
func (s *service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error) {
	rows, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading leaderboard")
	}
	out := make([]LeaderboardEntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, LeaderboardEntryDTO{
			Mechanic:    *NewMechanicDTO(&rows[i].Mechanic),
			TicketCount: rows[i].TicketCount,
		})
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
