package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketPart is the ticket-to-part usage edge. One row per distinct part; a
// second attach of the same part is a duplicate, not a quantity bump.
type TicketPart struct {
	TicketID uuid.UUID `gorm:"column:ticket_id;type:uuid;primaryKey"`
	PartID   uuid.UUID `gorm:"column:part_id;type:uuid;primaryKey"`
	AddedAt  time.Time `gorm:"column:added_at;autoCreateTime"`
}
