package mechanics

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

func setupMechanicsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:mechanics_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)

	statements := []string{
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
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newMechanicsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), config.PasswordConfig{})
	require.NoError(t, err)
	return svc
}

func mustRegisterMechanic(t *testing.T, svc Service, rate string) *MechanicDTO {
	t.Helper()
	dto, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Test Mechanic",
		Email:      fmt.Sprintf("mech_%s@example.com", uuid.NewString()),
		HourlyRate: decimal.RequireFromString(rate),
		Password:   "pw123456",
	})
	require.NoError(t, err)
	return dto
}

func mustInsertTicket(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	ticket := &models.ServiceTicket{
		ID:         uuid.New(),
		Title:      "Timing belt",
		CustomerID: uuid.New(),
		Status:     enums.TicketStatusOpen,
		Priority:   enums.TicketPriorityMedium,
	}
	require.NoError(t, conn.Create(ticket).Error)
	return ticket.ID
}

func TestRegisterRejectsNegativeRate(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Bad Rate",
		Email:      "badrate@example.com",
		HourlyRate: decimal.RequireFromString("-1"),
		Password:   "pw123456",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	ctx := context.Background()

	input := RegisterInput{
		Name:       "First",
		Email:      "twice@example.com",
		HourlyRate: decimal.RequireFromString("40"),
		Password:   "pw123456",
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	input.Name = "Second"
	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateRateValidation(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	ctx := context.Background()

	mech := mustRegisterMechanic(t, svc, "40.00")

	bad := decimal.RequireFromString("-5")
	_, err := svc.Update(ctx, mech.ID, UpdateInput{HourlyRate: &bad})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	good := decimal.RequireFromString("62.50")
	updated, err := svc.Update(ctx, mech.ID, UpdateInput{HourlyRate: &good})
	require.NoError(t, err)
	require.True(t, updated.HourlyRate.Equal(good))
}

func TestDeleteMechanicCascadesAssignments(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	ctx := context.Background()

	mech := mustRegisterMechanic(t, svc, "40.00")
	ticketID := mustInsertTicket(t, conn)
	require.NoError(t, conn.Create(&models.TicketMechanic{TicketID: ticketID, MechanicID: mech.ID}).Error)

	require.NoError(t, svc.Delete(ctx, mech.ID))

	var edges int64
	require.NoError(t, conn.Model(&models.TicketMechanic{}).Where("mechanic_id = ?", mech.ID).Count(&edges).Error)
	require.Zero(t, edges)

	// the ticket itself survives
	var tickets int64
	require.NoError(t, conn.Model(&models.ServiceTicket{}).Where("id = ?", ticketID).Count(&tickets).Error)
	require.EqualValues(t, 1, tickets)
}

func TestExistingIDs(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	repo := NewRepository(conn)
	ctx := context.Background()

	known := mustRegisterMechanic(t, svc, "40.00")
	unknown := uuid.New()

	set, err := repo.ExistingIDs(ctx, []uuid.UUID{known.ID, unknown})
	require.NoError(t, err)
	require.True(t, set[known.ID])
	require.False(t, set[unknown])

	empty, err := repo.ExistingIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestLeaderboardOrdersByAssignmentCount(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	ctx := context.Background()

	idle := mustRegisterMechanic(t, svc, "40.00")
	busy := mustRegisterMechanic(t, svc, "55.00")
	medium := mustRegisterMechanic(t, svc, "45.00")

	for i := 0; i < 3; i++ {
		ticketID := mustInsertTicket(t, conn)
		require.NoError(t, conn.Create(&models.TicketMechanic{TicketID: ticketID, MechanicID: busy.ID}).Error)
		if i < 1 {
			require.NoError(t, conn.Create(&models.TicketMechanic{TicketID: ticketID, MechanicID: medium.ID}).Error)
		}
	}

	entries, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, busy.ID, entries[0].Mechanic.ID)
	require.EqualValues(t, 3, entries[0].TicketCount)
	require.Equal(t, medium.ID, entries[1].Mechanic.ID)
	require.EqualValues(t, 1, entries[1].TicketCount)
	require.Equal(t, idle.ID, entries[2].Mechanic.ID)
	require.EqualValues(t, 0, entries[2].TicketCount)
}

func TestListPaginatesMechanics(t *testing.T) {
	conn := setupMechanicsTestDB(t)
	svc := newMechanicsService(t, conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustRegisterMechanic(t, svc, "40.00")
	}

	first, err := svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Mechanics, 2)
	require.NotNil(t, first.NextCursor)

	second, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: *first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Mechanics, 1)
	require.Nil(t, second.NextCursor)
}
