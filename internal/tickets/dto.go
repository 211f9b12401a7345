package tickets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
)

// AssignedMechanicDTO is the slice of mechanic data exposed on a ticket.
type AssignedMechanicDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Specialty  *string         `json:"specialty,omitempty"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// TicketPartDTO is the slice of part data exposed on a ticket.
type TicketPartDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// TicketDTO represents the service ticket payload returned to clients.
type TicketDTO struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	CustomerID     uuid.UUID             `json:"customer_id"`
	VehicleInfo    *string               `json:"vehicle_info,omitempty"`
	EstimatedCost  decimal.Decimal       `json:"estimated_cost"`
	TotalCost      decimal.Decimal       `json:"total_cost"`
	Status         string                `json:"status"`
	Priority       string                `json:"priority"`
	CompletionDate *time.Time            `json:"completion_date,omitempty"`
	Mechanics      []AssignedMechanicDTO `json:"mechanics"`
	Parts          []TicketPartDTO       `json:"parts"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TicketListDTO wraps a page of tickets with the next cursor.
type TicketListDTO struct {
	Tickets    []TicketDTO `json:"tickets"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// BulkEditResultDTO reports what a bulk mechanic edit actually changed.
type BulkEditResultDTO struct {
	Ticket  TicketDTO   `json:"ticket"`
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
	Skipped []uuid.UUID `json:"skipped,omitempty"`
}

// NewTicketDTO builds a DTO from the ticket and its loaded edge sets.
func NewTicketDTO(ticket *models.ServiceTicket, mechanics []models.Mechanic, parts []models.InventoryItem) *TicketDTO {
	dto := &TicketDTO{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		CustomerID:     ticket.CustomerID,
		VehicleInfo:    ticket.VehicleInfo,
		EstimatedCost:  ticket.EstimatedCost,
		TotalCost:      ticket.TotalCost,
		Status:         string(ticket.Status),
		Priority:       string(ticket.Priority),
		CompletionDate: ticket.CompletionDate,
		Mechanics:      make([]AssignedMechanicDTO, 0, len(mechanics)),
		Parts:          make([]TicketPartDTO, 0, len(parts)),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
	for i := range mechanics {
		dto.Mechanics = append(dto.Mechanics, AssignedMechanicDTO{
			ID:         mechanics[i].ID,
			Name:       mechanics[i].Name,
			Specialty:  mechanics[i].Specialty,
			HourlyRate: mechanics[i].HourlyRate,
		})
	}
	for i := range parts {
		dto.Parts = append(dto.Parts, TicketPartDTO{
			ID:    parts[i].ID,
			Name:  parts[i].Name,
			Price: parts[i].Price,
		})
	}
	return dto
}
