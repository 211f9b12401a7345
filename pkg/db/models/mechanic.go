package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mechanic represents a shop mechanic who can be assigned to tickets.
type Mechanic struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone        *string         `gorm:"column:phone"`
	Specialty    *string         `gorm:"column:specialty"`
	HourlyRate   decimal.Decimal `gorm:"column:hourly_rate;type:numeric(10,2);not null;default:0"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
