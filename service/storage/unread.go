package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// unread counter key: chat:unread:<user>
func unreadKey(user string) string { return "chat:unread:" + user }

// UnreadIncr bumps the user's notification badge and returns the new count.
func UnreadIncr(ctx context.Context, user string) (int64, error) {
	if rdb == nil {
		return 0, errNotInitialized
	}
	return rdb.Incr(ctx, unreadKey(user)).Result()
}

// UnreadCount reads the badge; a missing key counts as zero.
func UnreadCount(ctx context.Context, user string) (int64, error) {
	if rdb == nil {
		return 0, errNotInitialized
	}
	n, err := rdb.Get(ctx, unreadKey(user)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// UnreadReset clears the badge, typically when the notification list is read.
func UnreadReset(ctx context.Context, user string) error {
	if rdb == nil {
		return errNotInitialized
	}
	return rdb.Del(ctx, unreadKey(user)).Err()
}
