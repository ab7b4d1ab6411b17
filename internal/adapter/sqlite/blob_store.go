// Package sqlite stores blobs in an embedded SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"taskkeeper/internal/core/ports"
)

type blobRow struct {
	Key       string `gorm:"column:store_key;primaryKey;size:191"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (blobRow) TableName() string { return "kv_store" }

type BlobStore struct {
	db *gorm.DB
}

var _ ports.BlobStore = (*BlobStore)(nil)

// Open opens (or creates) the database at path and migrates the kv_store table.
// Use ":memory:" for a throwaway database.
func Open(path string) (*BlobStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&blobRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate kv_store: %w", err)
	}

	return &BlobStore{db: db}, nil
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row blobRow
	if err := s.db.WithContext(ctx).First(&row, "store_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to find blob: %w", err)
	}
	return row.Value, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	row := blobRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert blob: %w", err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&blobRow{}, "store_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *BlobStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
