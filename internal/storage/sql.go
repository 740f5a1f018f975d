package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/config"
)

// SQLBackend is a durable Backend over a MySQL key-value table
type SQLBackend struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLBackend opens a MySQL connection and returns a backend over the
// MS_KV_STORE table
func NewSQLBackend(cfg *config.DatabaseConfig, logger *logrus.Logger) (*SQLBackend, error) {
	dsn := cfg.GetDSN()

	logger.WithFields(logrus.Fields{
		"hostname": cfg.Hostname,
		"port":     cfg.Port,
		"database": cfg.Database,
	}).Info("Connecting to database...")

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to database")

	return &SQLBackend{db: db, logger: logger}, nil
}

// NewSQLBackendFromDB wraps an existing connection (used by tests)
func NewSQLBackendFromDB(db *sqlx.DB, logger *logrus.Logger) *SQLBackend {
	return &SQLBackend{db: db, logger: logger}
}

// Get retrieves a value by key
func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT KV_VALUE FROM MS_KV_STORE WHERE KV_KEY = ?`

	var value []byte
	err := b.db.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return value, nil
}

// Put inserts or replaces a key-value pair
func (b *SQLBackend) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO MS_KV_STORE (KV_KEY, KV_VALUE, UPDATED_TIME)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE KV_VALUE = VALUES(KV_VALUE), UPDATED_TIME = VALUES(UPDATED_TIME)
	`

	_, err := b.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM MS_KV_STORE WHERE KV_KEY = ?`

	_, err := b.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// List returns all pairs whose key starts with prefix
func (b *SQLBackend) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	query := `SELECT KV_KEY, KV_VALUE FROM MS_KV_STORE WHERE KV_KEY LIKE ?`

	rows, err := b.db.QueryxContext(ctx, query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}

// Close closes the database connection
func (b *SQLBackend) Close() error {
	b.logger.Info("Closing database connection...")
	return b.db.Close()
}
