package mechanics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
)

// MechanicDTO represents the mechanic payload returned to clients.
type MechanicDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      *string         `json:"phone,omitempty"`
	Specialty  *string         `json:"specialty,omitempty"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MechanicListDTO wraps a page of mechanics with the next cursor.
type MechanicListDTO struct {
	Mechanics  []MechanicDTO `json:"mechanics"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// LeaderboardEntryDTO pairs a mechanic with their assignment count.
type LeaderboardEntryDTO struct {
	Mechanic    MechanicDTO `json:"mechanic"`
	TicketCount int64       `json:"ticket_count"`
}

// NewMechanicDTO builds a DTO from the persisted model.
func NewMechanicDTO(mechanic *models.Mechanic) *MechanicDTO {
	return &MechanicDTO{
		ID:         mechanic.ID,
		Name:       mechanic.Name,
		Email:      mechanic.Email,
		Phone:      mechanic.Phone,
		Specialty:  mechanic.Specialty,
		HourlyRate: mechanic.HourlyRate,
		CreatedAt:  mechanic.CreatedAt,
		UpdatedAt:  mechanic.UpdatedAt,
	}
}
