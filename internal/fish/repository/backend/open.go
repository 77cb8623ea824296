// Package backend selects a FishRepository implementation from configuration.
package backend

import (
	"context"
	"fmt"
	"os"

	"fishtank/internal/fish/repository"
	"fishtank/internal/fish/repository/fs"
	"fishtank/internal/fish/repository/memory"
	"fishtank/internal/fish/repository/mongo"
	"fishtank/internal/fish/repository/s3"
	"fishtank/internal/fish/repository/sqlstore"
	"fishtank/pkg/config"
)

// Open builds the repository named by cfg.StoreDriver:
//
//	fs:       cfg.DataPath (created first when cfg.CreateDataPath is set)
//	sqlite:   cfg.SQLitePath
//	postgres: cfg.PostgresDSN
//	mongo:    cfg.MongoURI / cfg.MongoDatabaseName, connecting on demand
//	s3:       cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.S3Prefix
//	memory:   nothing
func Open(ctx context.Context, cfg *config.Config) (repository.FishRepository, error) {
	driver, ok := repository.ParseDriver(cfg.StoreDriver)
	if !ok {
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	switch driver {
	case repository.DriverFilesystem:
		if cfg.CreateDataPath {
			if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
				return nil, fmt.Errorf("create data path: %w", err)
			}
		}
		return fs.New(cfg.DataPath), nil
	case repository.DriverSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
	case repository.DriverPostgres:
		return sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
	case repository.DriverMongo:
		if cfg.Client.Mongo == nil {
			cfg.SetMongo()
		}
		db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
		return mongo.New(db, cfg.ReadTimeout, cfg.WriteTimeout), nil
	case repository.DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return memory.New(), nil
	}
}
