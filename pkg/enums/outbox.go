package enums

import "fmt"

// OutboxEventType names a domain event emitted through the outbox.
type OutboxEventType string

const (
	OutboxEventTicketCreated         OutboxEventType = "ticket.created"
	OutboxEventTicketUpdated         OutboxEventType = "ticket.updated"
	OutboxEventTicketDeleted         OutboxEventType = "ticket.deleted"
	OutboxEventTicketMechanicAdded   OutboxEventType = "ticket.mechanic_assigned"
	OutboxEventTicketMechanicRemoved OutboxEventType = "ticket.mechanic_removed"
	OutboxEventTicketPartAdded       OutboxEventType = "ticket.part_added"
)

var validOutboxEventTypes = []OutboxEventType{
	OutboxEventTicketCreated,
	OutboxEventTicketUpdated,
	OutboxEventTicketDeleted,
	OutboxEventTicketMechanicAdded,
	OutboxEventTicketMechanicRemoved,
	OutboxEventTicketPartAdded,
}

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OutboxEventType.
func (t OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateServiceTicket OutboxAggregateType = "service_ticket"
)

// IsValid reports whether the value is a known OutboxAggregateType.
func (t OutboxAggregateType) IsValid() bool {
	return t == OutboxAggregateServiceTicket
}
