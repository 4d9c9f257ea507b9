package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/AndresCespedes/inventory-service/internal/model"
)

// Postgres is the Store implementation backed by a stock_records table with
// a unique index on product_id.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres connects to databaseURL and verifies the connection.
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Migrate applies pending SQL migrations from migrationsDir.
func Migrate(databaseURL, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() error { return s.db.Close() }

func (s *Postgres) FindByProductID(ctx context.Context, productID int64) (model.StockRecord, error) {
	var rec model.StockRecord
	query := `SELECT id, product_id, quantity FROM stock_records WHERE product_id = $1`
	if err := s.db.GetContext(ctx, &rec, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StockRecord{}, ErrNotFound
		}
		return model.StockRecord{}, fmt.Errorf("find stock record: %w", err)
	}
	return rec, nil
}

// Upsert locks the row (when it exists) to capture the previous quantity,
// then writes with ON CONFLICT inside the same transaction. Concurrent
// upserts on one product id serialize on the row lock.
func (s *Postgres) Upsert(ctx context.Context, productID, quantity int64) (UpsertResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var prev sql.NullInt64
	prevQuery := `SELECT quantity FROM stock_records WHERE product_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &prev.Int64, prevQuery, productID); err == nil {
		prev.Valid = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return UpsertResult{}, fmt.Errorf("lock stock record: %w", err)
	}

	query := `
		INSERT INTO stock_records (product_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity
		RETURNING id, product_id, quantity`
	var rec model.StockRecord
	if err := tx.GetContext(ctx, &rec, query, productID, quantity); err != nil {
		return UpsertResult{}, fmt.Errorf("upsert stock record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("commit upsert: %w", err)
	}

	res := UpsertResult{Record: rec, Created: !prev.Valid}
	if prev.Valid {
		res.PreviousQuantity = &prev.Int64
	}
	return res, nil
}
