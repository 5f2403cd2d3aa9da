package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *Repository {
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations(creds))
	// A second run is a no-op.
	require.NoError(t, repo.RunMigrations(creds))

	t.Cleanup(func() {
		_ = repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return repo
}

func newOrder(sessionID string) *domain.Order {
	return &domain.Order{
		ID:                uuid.New(),
		CheckoutSessionID: sessionID,
		PaymentIntentID:   "pi_" + sessionID,
		CustomerID:        "cus_1",
		AmountSubtotal:    2500,
		AmountTotal:       2500,
		Currency:          "usd",
		PaymentStatus:     "paid",
		Status:            domain.OrderStatusCompleted,
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	order := newOrder("cs_test_1")
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.False(t, order.CreatedAt.IsZero())

	got, err := repo.GetOrderBySessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, "pi_cs_test_1", got.PaymentIntentID)
	assert.Equal(t, "cus_1", got.CustomerID)
	assert.Equal(t, int64(2500), got.AmountTotal)
	assert.Equal(t, "usd", got.Currency)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
}

func TestCreateOrder_NullableReferences(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	order := newOrder("cs_guest")
	order.PaymentIntentID = ""
	order.CustomerID = ""
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrderBySessionID(ctx, "cs_guest")
	require.NoError(t, err)
	assert.Empty(t, got.PaymentIntentID)
	assert.Empty(t, got.CustomerID)
}

func TestCreateOrder_DuplicateSession(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, newOrder("cs_dup")))
	err := repo.CreateOrder(ctx, newOrder("cs_dup"))
	assert.ErrorIs(t, err, ErrDuplicateSession)

	orders, err := repo.ListOrders(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCreateOrder_ConcurrentRedeliveries(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateOrder(ctx, newOrder("cs_race"))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrDuplicateSession):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, dup)
}

func TestGetOrderBySessionID_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetOrderBySessionID(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders_NewestFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"cs_a", "cs_b", "cs_c"} {
		require.NoError(t, repo.CreateOrder(ctx, newOrder(id)))
		time.Sleep(10 * time.Millisecond)
	}

	orders, err := repo.ListOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "cs_c", orders[0].CheckoutSessionID)
	assert.Equal(t, "cs_b", orders[1].CheckoutSessionID)

	require.NoError(t, repo.Ping(ctx))
}
