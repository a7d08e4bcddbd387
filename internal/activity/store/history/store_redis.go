package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"agrilog/internal/activity/models"
	id "agrilog/pkg/domain"
)

// RedisStore implements ports.HistoryStore on a per-user sorted set scored by
// creation time in unix nanoseconds. Window reads map directly onto
// ZRANGEBYSCORE, which suits the rate checks; entries expire with the key TTL
// so the set tracks only the horizon the checks need.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. ttl bounds how long history stays
// queryable; it must cover the widest check window (24h) with margin.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func historyKey(userID id.UserID) string {
	return fmt.Sprintf("history:%s", userID)
}

func (s *RedisStore) Append(ctx context.Context, record *models.ActivityRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal activity record: %w", err)
	}

	key := historyKey(record.UserID)
	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(record.CreatedAt.UnixNano()),
		Member: payload,
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) ListByUserSince(ctx context.Context, userID id.UserID, since time.Time) ([]*models.ActivityRecord, error) {
	members, err := s.client.ZRevRangeByScore(ctx, historyKey(userID), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixNano(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	return decodeMembers(members)
}

func (s *RedisStore) CountByUserSince(ctx context.Context, userID id.UserID, since time.Time) (int, error) {
	count, err := s.client.ZCount(ctx, historyKey(userID),
		strconv.FormatInt(since.UnixNano(), 10), "+inf").Result()
	return int(count), err
}

func (s *RedisStore) ListRecent(ctx context.Context, userID id.UserID, limit int) ([]*models.ActivityRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := s.client.ZRevRange(ctx, historyKey(userID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return decodeMembers(members)
}

func decodeMembers(members []string) ([]*models.ActivityRecord, error) {
	out := make([]*models.ActivityRecord, 0, len(members))
	for _, m := range members {
		var record models.ActivityRecord
		if err := json.Unmarshal([]byte(m), &record); err != nil {
			return nil, fmt.Errorf("decode activity record: %w", err)
		}
		out = append(out, &record)
	}
	return out, nil
}
