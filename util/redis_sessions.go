package util

import (
	"context"
	"fmt"

	"github.com/ariebrainware/cloudvault/config"
	"github.com/redis/go-redis/v9"
)

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// AddSessionToUserSet records the session token in the per-user Redis set so
// all of a user's live sessions can be found for bulk invalidation. The set
// has no TTL; it is cleaned up through RemoveSessionTokenFromUserSet or
// InvalidateUserSessions.
func AddSessionToUserSet(ctx context.Context, userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(userID)
	if err := rdb.SAdd(ctx, key, token).Err(); err != nil {
		return err
	}
	return rdb.Persist(ctx, key).Err()
}

// RemoveSessionTokenFromUserSet removes a single session token from the
// per-user set, deleting the set atomically once it empties.
func RemoveSessionTokenFromUserSet(ctx context.Context, userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	script := `
		local removed = redis.call('SREM', KEYS[1], ARGV[1])
		if removed > 0 then
			local count = redis.call('SCARD', KEYS[1])
			if count == 0 then
				redis.call('DEL', KEYS[1])
			end
		end
		return removed
	`
	return rdb.Eval(ctx, script, []string{userSessionsKey(userID)}, token).Err()
}

// InvalidateUserSessions deletes every session:<token> mirror for the user
// and drops the per-user set. Used when an account gets locked.
func InvalidateUserSessions(ctx context.Context, userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(userID)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, fmt.Sprintf("session:%s", tok)).Err()
	}
	return rdb.Del(ctx, key).Err()
}
