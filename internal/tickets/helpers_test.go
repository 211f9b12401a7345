package tickets

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	invpkg "github.com/wrenchworks/mechshop-backend/internal/inventory"
	mechpkg "github.com/wrenchworks/mechshop-backend/internal/mechanics"
	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	"github.com/wrenchworks/mechshop-backend/pkg/outbox"
)

func setupTicketsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:tickets_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  address TEXT,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS mechanics (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  specialty TEXT,
  hourly_rate NUMERIC NOT NULL DEFAULT 0,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  category TEXT,
  supplier TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS service_tickets (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  vehicle_info TEXT,
  estimated_cost NUMERIC NOT NULL DEFAULT 0,
  total_cost NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'open',
  priority TEXT NOT NULL DEFAULT 'medium',
  completion_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ticket_mechanics (
  ticket_id TEXT NOT NULL,
  mechanic_id TEXT NOT NULL,
  assigned_at DATETIME,
  PRIMARY KEY (ticket_id, mechanic_id),
  FOREIGN KEY (ticket_id) REFERENCES service_tickets(id) ON DELETE CASCADE,
  FOREIGN KEY (mechanic_id) REFERENCES mechanics(id) ON DELETE CASCADE
);`,
		`CREATE TABLE IF NOT EXISTS ticket_parts (
  ticket_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  added_at DATETIME,
  PRIMARY KEY (ticket_id, part_id),
  FOREIGN KEY (ticket_id) REFERENCES service_tickets(id) ON DELETE CASCADE,
  FOREIGN KEY (part_id) REFERENCES inventory_items(id) ON DELETE CASCADE
);`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		NewRepository(conn),
		db.NewWithConn(conn),
		NewCostCalculator(config.BillingConfig{LaborHours: 2}),
		mechpkg.NewRepository(conn),
		invpkg.NewRepository(conn),
		outbox.NewService(outbox.NewRepository(conn), nil),
		nil,
	)
	require.NoError(t, err)
	return svc
}

func mustCreateCustomer(t *testing.T, conn *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:           uuid.New(),
		Name:         "Test Customer",
		Email:        fmt.Sprintf("customer_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
	}
	require.NoError(t, conn.Create(customer).Error)
	return customer
}

func mustCreateMechanic(t *testing.T, conn *gorm.DB, rate string) *models.Mechanic {
	t.Helper()
	mechanic := &models.Mechanic{
		ID:           uuid.New(),
		Name:         "Test Mechanic",
		Email:        fmt.Sprintf("mechanic_%s@example.com", uuid.NewString()),
		HourlyRate:   decimal.RequireFromString(rate),
		PasswordHash: "hash",
	}
	require.NoError(t, conn.Create(mechanic).Error)
	return mechanic
}

func mustCreatePart(t *testing.T, conn *gorm.DB, price string) *models.InventoryItem {
	t.Helper()
	part := &models.InventoryItem{
		ID:       uuid.New(),
		Name:     "Test Part",
		Quantity: 10,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, conn.Create(part).Error)
	return part
}

func mustCreateTicket(t *testing.T, svc Service, customerID uuid.UUID, estimate string) *TicketDTO {
	t.Helper()
	ticket, err := svc.Create(context.Background(), CreateInput{
		Title:         "Brake inspection",
		Description:   "Squealing on braking",
		CustomerID:    customerID,
		EstimatedCost: decimal.RequireFromString(estimate),
	})
	require.NoError(t, err)
	require.Equal(t, string(enums.TicketStatusOpen), ticket.Status)
	return ticket
}
