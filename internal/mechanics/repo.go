package mechanics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

// Repository exposes mechanic persistence helpers.
type Repository struct {
	db *gorm.DB
}

// LeaderboardRow pairs a mechanic with their assignment count.
type LeaderboardRow struct {
	Mechanic    models.Mechanic
	TicketCount int64
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new mechanic row.
func (r *Repository) Create(ctx context.Context, mechanic *models.Mechanic) (*models.Mechanic, error) {
	if err := r.db.WithContext(ctx).Create(mechanic).Error; err != nil {
		return nil, err
	}
	return mechanic, nil
}

// FindByID loads a mechanic by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	if err := r.db.WithContext(ctx).First(&mechanic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

// FindByEmail loads a mechanic by unique email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	if err := r.db.WithContext(ctx).First(&mechanic, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

// ExistingIDs reports which of the provided ids belong to real mechanics.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Mechanic{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// Update persists the full mechanic row.
func (r *Repository) Update(ctx context.Context, mechanic *models.Mechanic) (*models.Mechanic, error) {
	if err := r.db.WithContext(ctx).Save(mechanic).Error; err != nil {
		return nil, err
	}
	return mechanic, nil
}

// Delete removes the mechanic row. Assignment edges cascade in the DB.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Mechanic{}).Error
}

// List returns a page of mechanics ordered by creation time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Mechanic, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).Model(&models.Mechanic{})
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Mechanic
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

// Leaderboard returns mechanics ordered by how many tickets they are assigned
// to, busiest first. Mechanics with no assignments are included with zero.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	limit = pagination.NormalizeLimit(limit)

	type row struct {
		models.Mechanic
		TicketCount int64 `gorm:"column:ticket_count"`
	}
	var raw []row
	err := r.db.WithContext(ctx).
		Model(&models.Mechanic{}).
		Select("mechanics.*, COUNT(ticket_mechanics.ticket_id) AS ticket_count").
		Joins("LEFT JOIN ticket_mechanics ON ticket_mechanics.mechanic_id = mechanics.id").
		Group("mechanics.id").
		Order("ticket_count DESC").
		Order("mechanics.created_at ASC").
		Limit(limit).
		Find(&raw).Error
	if err != nil {
		return nil, err
	}

	out := make([]LeaderboardRow, 0, len(raw))
	for _, item := range raw {
		out = append(out, LeaderboardRow{Mechanic: item.Mechanic, TicketCount: item.TicketCount})
	}
	return out, nil
}
