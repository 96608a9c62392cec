package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coursegrid/coursegrid/internal/config"
	"github.com/coursegrid/coursegrid/internal/course"
)

// Open returns the repository selected by the storage driver. For SQLite the
// database directory is created when missing.
func Open(ctx context.Context, cfg config.StorageConfig) (course.Repository, error) {
	switch cfg.Driver {
	case "mongo":
		return NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
