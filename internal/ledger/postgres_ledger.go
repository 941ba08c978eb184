package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresLedger is the server-grade ledger backend: one row per order,
// items and customer info as JSONB, numbers from a database sequence.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(cred *Credentials) (*PostgresLedger, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresLedger{db: db}, nil
}

func (l *PostgresLedger) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(l.db, &postgres.Config{
		MigrationsTable: "ledger_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (l *PostgresLedger) Append(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer info: %w", err)
	}

	query := `INSERT INTO orders (id, order_number, owner_id, total_price, customer, items, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, insertErr := l.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.OwnerID,
		order.TotalPrice,
		customerJSON,
		itemsJSON,
		order.Status,
		order.Date)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (l *PostgresLedger) FindByID(ctx context.Context, ownerID, id string) (*domain.Order, error) {
	query := `SELECT id, order_number, owner_id, total_price, customer, items, status, created_at
	          FROM orders WHERE owner_id = $1 AND (id::text = $2 OR order_number = $2)`

	order, err := scanOrder(l.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (l *PostgresLedger) ListAll(ctx context.Context, ownerID string) ([]domain.Order, error) {
	query := `SELECT id, order_number, owner_id, total_price, customer, items, status, created_at
	          FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := l.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (l *PostgresLedger) NextOrderNumber(ctx context.Context) (string, error) {
	var n int64
	if err := l.db.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("order number sequence: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}

func (l *PostgresLedger) Close() error {
	return l.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON, customerJSON []byte

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.OwnerID,
		&order.TotalPrice,
		&customerJSON,
		&itemsJSON,
		&order.Status,
		&order.Date,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order row: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer info: %w", err)
	}

	return &order, nil
}
