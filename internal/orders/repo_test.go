package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	"github.com/tvillarrealb/shopstack-backend/pkg/pagination"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Payment{}, &models.Order{}, &models.OrderItem{},
	))
	return conn
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID, placedAt time.Time) *models.Order {
	t.Helper()
	ctx := context.Background()

	payment, err := repo.CreatePayment(ctx, &models.Payment{PaymentMethod: "card"})
	require.NoError(t, err)

	order, err := repo.Create(ctx, &models.Order{
		UserID:      userID,
		Email:       "buyer@example.com",
		Status:      enums.OrderStatusPlaced,
		TotalAmount: decimal.NewFromInt(50),
		AddressID:   uuid.New(),
		PaymentID:   &payment.ID,
		OrderDate:   placedAt,
	})
	require.NoError(t, err)

	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{{
		OrderID:             order.ID,
		ProductID:           uuid.New(),
		ProductName:         "widget",
		Quantity:            2,
		OrderedProductPrice: decimal.NewFromInt(25),
	}}))
	return order
}

func TestRepositoryFindByIDPreloadsSnapshot(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupRepoTestDB(t))
	userID := uuid.New()

	created := seedOrder(t, repo, userID, time.Now().UTC())

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "widget", found.Items[0].ProductName)
	assert.True(t, found.Items[0].OrderedProductPrice.Equal(decimal.NewFromInt(25)))
	require.NotNil(t, found.Payment)
	assert.Equal(t, "card", found.Payment.PaymentMethod)
}

func TestRepositoryListByUserOrdersNewestFirst(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupRepoTestDB(t))
	userID := uuid.New()
	base := time.Now().UTC()

	older := seedOrder(t, repo, userID, base.Add(-2*time.Hour))
	newer := seedOrder(t, repo, userID, base)
	seedOrder(t, repo, uuid.New(), base) // another user's order

	rows, total, err := repo.ListByUser(context.Background(), userID, pagination.Params{Page: 0, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryListByUserPaginates(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupRepoTestDB(t))
	userID := uuid.New()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		seedOrder(t, repo, userID, base.Add(time.Duration(-i)*time.Hour))
	}

	rows, total, err := repo.ListByUser(context.Background(), userID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupRepoTestDB(t))

	order := seedOrder(t, repo, uuid.New(), time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.Status)
}
