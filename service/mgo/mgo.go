package mgo

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"ChatWave/tools/errs"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds the MongoDB connection settings.
type Config struct {
	Uri         string
	Database    string
	Username    string
	Password    string
	AuthSource  string
	MaxPoolSize int
}

func (c *Config) clientOptions() (*options.ClientOptions, error) {
	if c.Uri == "" {
		return nil, errs.New("mongo uri is required")
	}
	opts := options.Client().ApplyURI(c.Uri)
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(c.MaxPoolSize))
	}
	if c.Username != "" {
		auth := c.AuthSource
		if auth == "" {
			auth = "admin"
		}
		opts.SetAuth(options.Credential{
			Username:   c.Username,
			Password:   c.Password,
			AuthSource: auth,
		})
	}
	return opts, nil
}

type Manager struct {
	mu        sync.RWMutex
	db        *mongo.Database
	readyCh   chan struct{} // closed once on first successful connect
	readyOnce sync.Once
	lastErr   atomic.Value
}

var globalMgr = &Manager{readyCh: make(chan struct{})}

// StartAsync connects in the background with exponential backoff and keeps a
// health-check loop running until ctx is done. The first successful connect
// closes the ready channel.
func StartAsync(ctx context.Context, cfg *Config) {
	go func() {
		const (
			baseBackoff = 200 * time.Millisecond
			maxBackoff  = 5 * time.Second
			healthEvery = 10 * time.Second
			failThresh  = 3
		)

		for {
			attempt := 0
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				db, err := connect(ctx, cfg)
				if err == nil {
					globalMgr.mu.Lock()
					globalMgr.db = db
					globalMgr.mu.Unlock()
					globalMgr.readyOnce.Do(func() { close(globalMgr.readyCh) })
					break
				}
				globalMgr.lastErr.Store(err)

				backoff := baseBackoff << attempt
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				jitter := time.Duration(rand.Int63n(int64(backoff/5) + 1))
				timer := time.NewTimer(backoff - jitter/2)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
				if attempt < 6 {
					attempt++
				}
			}

			// health checks; on sustained failure drop back to the connect loop
			fail := 0
			ticker := time.NewTicker(healthEvery)
			healthy := true
			for healthy {
				select {
				case <-ctx.Done():
					ticker.Stop()
					globalMgr.disconnect()
					return
				case <-ticker.C:
					globalMgr.mu.RLock()
					db := globalMgr.db
					globalMgr.mu.RUnlock()
					if db == nil {
						healthy = false
						break
					}
					if err := db.Client().Ping(ctx, nil); err != nil {
						fail++
						globalMgr.lastErr.Store(err)
						if fail >= failThresh {
							globalMgr.disconnect()
							healthy = false
						}
					} else {
						fail = 0
					}
				}
			}
			ticker.Stop()
		}
	}()
}

func connect(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, err
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cli, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(cctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	return cli.Database(cfg.Database), nil
}

func (m *Manager) disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		_ = m.db.Client().Disconnect(context.Background())
		m.db = nil
	}
}

// WaitReady blocks until the first connect succeeds or ctx is done.
func WaitReady(ctx context.Context) error {
	select {
	case <-globalMgr.readyCh:
		return nil
	case <-ctx.Done():
		if err, ok := globalMgr.lastErr.Load().(error); ok {
			return err
		}
		return ctx.Err()
	}
}

// Ready reports whether a usable database handle exists right now. REST
// routes are gated on it so request handlers never reach the Coll panic.
func Ready() bool {
	return DB() != nil
}

// DB returns the active database handle; nil while disconnected.
func DB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	return globalMgr.db
}

// Coll is a shorthand for collection access. Panics if called before the
// manager is ready; call WaitReady during boot.
func Coll(name string) *mongo.Collection {
	db := DB()
	if db == nil {
		panic("mgo: database not ready")
	}
	return db.Collection(name)
}
