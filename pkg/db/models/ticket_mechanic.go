package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketMechanic is the ticket-to-mechanic assignment edge. The composite
// primary key doubles as the uniqueness guard for duplicate assignments.
type TicketMechanic struct {
	TicketID   uuid.UUID `gorm:"column:ticket_id;type:uuid;primaryKey"`
	MechanicID uuid.UUID `gorm:"column:mechanic_id;type:uuid;primaryKey"`
	AssignedAt time.Time `gorm:"column:assigned_at;autoCreateTime"`
}
