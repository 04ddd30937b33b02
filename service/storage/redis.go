package storage

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

var (
	redisOnce sync.Once
	rdb       *redis.Client
)

// InitRedis initialises the process-wide client (singleton).
func InitRedis(c Config) error {
	var initErr error
	redisOnce.Do(func() {
		cli := redis.NewClient(&redis.Options{
			Addr:     c.Addr,
			Password: c.Password,
			DB:       c.DB,
			PoolSize: c.PoolSize,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := cli.Ping(ctx).Err(); err != nil {
			initErr = err
			return
		}
		rdb = cli
	})
	return initErr
}

// Client returns nil when redis was unavailable at boot; callers degrade.
func Client() *redis.Client { return rdb }
