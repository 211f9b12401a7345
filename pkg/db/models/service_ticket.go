package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrenchworks/mechshop-backend/pkg/enums"
)

// ServiceTicket represents a unit of shop work. CustomerID intentionally has
// no foreign key so walk-in tickets can reference customers that were never
// registered.
type ServiceTicket struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title          string               `gorm:"column:title;not null"`
	Description    string               `gorm:"column:description;not null"`
	CustomerID     uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	VehicleInfo    *string              `gorm:"column:vehicle_info"`
	EstimatedCost  decimal.Decimal      `gorm:"column:estimated_cost;type:numeric(10,2);not null;default:0"`
	TotalCost      decimal.Decimal      `gorm:"column:total_cost;type:numeric(10,2);not null;default:0"`
	Status         enums.TicketStatus   `gorm:"column:status;type:text;not null;default:open"`
	Priority       enums.TicketPriority `gorm:"column:priority;type:text;not null;default:medium"`
	CompletionDate *time.Time           `gorm:"column:completion_date"`
	Mechanics      []TicketMechanic     `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Parts          []TicketPart         `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
