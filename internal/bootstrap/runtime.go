// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"fmt"

	"agora/internal/cache"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally creates the built-in topics.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		if err := seed.Topics(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in topics: %w", err)
		}
	}

	return db, r, nil
}
