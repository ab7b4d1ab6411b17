package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"taskkeeper/internal/core/ports"
)

const createKVStoreTableQuery = `
CREATE TABLE IF NOT EXISTS kv_store (
  store_key  VARCHAR(191) NOT NULL PRIMARY KEY,
  value      LONGBLOB     NOT NULL,
  updated_at TIMESTAMP    NOT NULL
)`

const (
	getBlobQuery    = `SELECT value FROM kv_store WHERE store_key = ?`
	deleteBlobQuery = `DELETE FROM kv_store WHERE store_key = ?`
	insertBlobQuery = `INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, ?)`
)

// BlobStore keeps blobs in the kv_store table. Queries stick to the subset of
// SQL shared by MySQL and SQLite.
type BlobStore struct {
	db *sqlx.DB
}

var _ ports.BlobStore = (*BlobStore)(nil)

func NewBlobStore(db *sqlx.DB) *BlobStore {
	return &BlobStore{db: db}
}

func (s *BlobStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createKVStoreTableQuery); err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.db.GetContext(ctx, &value, getBlobQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrBlobNotFound
		}
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return value, nil
}

// Set replaces the row in a single transaction so readers never see a missing key.
func (s *BlobStore) Set(ctx context.Context, key string, value []byte) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteBlobQuery, key); err != nil {
		return fmt.Errorf("delete previous blob: %w", err)
	}
	if _, err = tx.ExecContext(ctx, insertBlobQuery, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert blob: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit blob: %w", err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteBlobQuery, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *BlobStore) Close() error {
	return s.db.Close()
}
