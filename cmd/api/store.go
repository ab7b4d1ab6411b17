package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dbadapter "taskkeeper/internal/adapter/db"
	"taskkeeper/internal/adapter/redisstore"
	"taskkeeper/internal/adapter/sqlite"
	"taskkeeper/internal/adapter/storage"
	"taskkeeper/internal/config"
	"taskkeeper/internal/core/ports"
)

// openBlobStore builds the durable key-value backend selected by STORE_DRIVER.
func openBlobStore(ctx context.Context, cfg *config.Config) (ports.BlobStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		zap.L().Warn("using in-memory store, tasks are lost on restart")
		return storage.NewMemoryBlobStore(), nil

	case config.StoreDriverFile:
		blobs, err := storage.NewFileBlobStore(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		return blobs, nil

	case config.StoreDriverMySQL:
		db, err := dbadapter.ConnectDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to mysql: %w", err)
		}
		blobs := dbadapter.NewBlobStore(db)
		if err := blobs.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return blobs, nil

	case config.StoreDriverRedis:
		blobs, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return blobs, nil

	default:
		blobs, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return blobs, nil
	}
}
