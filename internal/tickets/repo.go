package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

// Repository exposes ticket and edge persistence helpers.
type Repository struct {
	db *gorm.DB
}

// ListFilter narrows ticket listings.
type ListFilter struct {
	Status     *enums.TicketStatus
	CustomerID *uuid.UUID
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new ticket row.
func (r *Repository) Create(ctx context.Context, ticket *models.ServiceTicket) (*models.ServiceTicket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// FindByID loads the ticket row without edge sets.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceTicket, error) {
	var ticket models.ServiceTicket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Update persists the full ticket row.
func (r *Repository) Update(ctx context.Context, ticket *models.ServiceTicket) (*models.ServiceTicket, error) {
	if err := r.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete removes the ticket row. Edge rows cascade in the DB.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceTicket{}).Error
}

// List returns a page of tickets matching the filter, oldest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.ServiceTicket, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).Model(&models.ServiceTicket{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ServiceTicket
	if err := q.Order("created_at ASC").
		Order("id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// InsertMechanicEdge creates the assignment edge. A duplicate surfaces as a
// primary key violation for the caller to translate.
func (r *Repository) InsertMechanicEdge(ctx context.Context, ticketID, mechanicID uuid.UUID) error {
	edge := models.TicketMechanic{TicketID: ticketID, MechanicID: mechanicID}
	return r.db.WithContext(ctx).Create(&edge).Error
}

// DeleteMechanicEdge removes the assignment edge and reports whether it existed.
func (r *Repository) DeleteMechanicEdge(ctx context.Context, ticketID, mechanicID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
		Delete(&models.TicketMechanic{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// InsertPartEdge attaches a part to the ticket. A duplicate surfaces as a
// primary key violation for the caller to translate.
func (r *Repository) InsertPartEdge(ctx context.Context, ticketID, partID uuid.UUID) error {
	edge := models.TicketPart{TicketID: ticketID, PartID: partID}
	return r.db.WithContext(ctx).Create(&edge).Error
}

// ListMechanics loads the mechanics assigned to the ticket.
func (r *Repository) ListMechanics(ctx context.Context, ticketID uuid.UUID) ([]models.Mechanic, error) {
	var mechanics []models.Mechanic
	err := r.db.WithContext(ctx).
		Model(&models.Mechanic{}).
		Joins("JOIN ticket_mechanics ON ticket_mechanics.mechanic_id = mechanics.id").
		Where("ticket_mechanics.ticket_id = ?", ticketID).
		Order("ticket_mechanics.assigned_at ASC").
		Find(&mechanics).Error
	if err != nil {
		return nil, err
	}
	return mechanics, nil
}

// ListParts loads the inventory items attached to the ticket.
func (r *Repository) ListParts(ctx context.Context, ticketID uuid.UUID) ([]models.InventoryItem, error) {
	var parts []models.InventoryItem
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Joins("JOIN ticket_parts ON ticket_parts.part_id = inventory_items.id").
		Where("ticket_parts.ticket_id = ?", ticketID).
		Order("ticket_parts.added_at ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// AssignedMechanicIDs returns the set of mechanic ids currently on the ticket.
func (r *Repository) AssignedMechanicIDs(ctx context.Context, ticketID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.TicketMechanic{}).
		Where("ticket_id = ?", ticketID).
		Pluck("mechanic_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
