package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/db"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  category TEXT,
  supplier TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newInventoryService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func mustCreateItem(t *testing.T, svc Service, price string, quantity int) *ItemDTO {
	t.Helper()
	item, err := svc.Create(context.Background(), CreateInput{
		Name:     fmt.Sprintf("Part %s", uuid.NewString()[:8]),
		Quantity: quantity,
		Price:    decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return item
}

func TestCreateItemValidation(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Bad qty", Quantity: -1, Price: decimal.Zero})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(ctx, CreateInput{Name: "Bad price", Price: decimal.RequireFromString("-0.01")})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateAndGetItem(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)

	created := mustCreateItem(t, svc, "25.99", 12)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, 12, got.Quantity)
	require.True(t, got.Price.Equal(decimal.RequireFromString("25.99")))
}

func TestGetMissingItemNotFound(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateItemPartialFields(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)
	ctx := context.Background()

	created := mustCreateItem(t, svc, "10.00", 5)

	quantity := 0
	price := decimal.RequireFromString("12.50")
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Quantity: &quantity, Price: &price})
	require.NoError(t, err)
	require.Equal(t, 0, updated.Quantity)
	require.True(t, updated.Price.Equal(price))
	require.Equal(t, created.Name, updated.Name)

	bad := -3
	_, err = svc.Update(ctx, created.ID, UpdateInput{Quantity: &bad})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteItem(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)
	ctx := context.Background()

	created := mustCreateItem(t, svc, "9.99", 1)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err := svc.Get(ctx, created.ID)
	require.Error(t, err)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListItemsPaginates(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateItem(t, svc, "1.00", i)
	}

	first, err := svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	second, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: *first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Nil(t, second.NextCursor)
}
