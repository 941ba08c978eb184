package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestLedger(t *testing.T) (*PostgresLedger, func()) {
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

	cred := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	led, err := NewPostgresLedger(cred)
	require.NoError(t, err)

	err = led.RunMigrations(cred)
	require.NoError(t, err)

	cleanup := func() {
		led.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return led, cleanup
}

func TestPostgresLedger_AppendAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	led, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	older := newTestOrder("usr-1", "ORD-000001", now.Add(-48*time.Hour))
	newer := newTestOrder("usr-1", "ORD-000002", now)

	require.NoError(t, led.Append(ctx, older))
	require.NoError(t, led.Append(ctx, newer))

	orders, err := led.ListAll(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-000002", orders[0].OrderNumber)
	assert.Equal(t, "ORD-000001", orders[1].OrderNumber)
	assert.True(t, orders[0].TotalPrice.Equal(newer.TotalPrice))
	assert.WithinDuration(t, now, orders[0].Date, time.Second)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "f1", orders[0].Items[0].ProductID)
}

func TestPostgresLedger_DuplicateOrderNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	led, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	first := newTestOrder("usr-1", "ORD-000001", time.Now())
	require.NoError(t, led.Append(ctx, first))

	duplicate := newTestOrder("usr-1", "ORD-000001", time.Now())
	err := led.Append(ctx, duplicate)
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestPostgresLedger_FindByIDAndNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	led, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	order := newTestOrder("usr-1", "ORD-000007", time.Now())
	require.NoError(t, led.Append(ctx, order))

	byID, err := led.FindByID(ctx, "usr-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-000007", byID.OrderNumber)

	byNumber, err := led.FindByID(ctx, "usr-1", "ORD-000007")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	_, err = led.FindByID(ctx, "usr-2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresLedger_FindByID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	led, cleanup := setupTestLedger(t)
	defer cleanup()

	_, err := led.FindByID(context.Background(), "usr-1", "ORD-999999")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresLedger_NextOrderNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	led, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	first, err := led.NextOrderNumber(ctx)
	require.NoError(t, err)
	second, err := led.NextOrderNumber(ctx)
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", first)
	assert.Equal(t, "ORD-000002", second)
}
