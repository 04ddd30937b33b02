package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: chat:presence:<user>
// Value is the connection ID; TTL bounds the online validity window.
func presenceKey(user string) string { return "chat:presence:" + user }

var errNotInitialized = errors.New("redis not initialized")

// PresenceOnline marks the user online and (re)sets the TTL.
func PresenceOnline(ctx context.Context, user, connID string, ttl time.Duration) error {
	if rdb == nil {
		return errNotInitialized
	}
	return rdb.Set(ctx, presenceKey(user), connID, ttl).Err()
}

// PresenceOffline deletes the key.
func PresenceOffline(ctx context.Context, user string) error {
	if rdb == nil {
		return errNotInitialized
	}
	return rdb.Del(ctx, presenceKey(user)).Err()
}

// PresenceLookup reports whether the user is online and on which connection.
func PresenceLookup(ctx context.Context, user string) (connID string, online bool, err error) {
	if rdb == nil {
		return "", false, errNotInitialized
	}
	val, err := rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
