package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qppgateway/api/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	statsKeyTotal     = "qpp:jobs:total"
	statsKeySucceeded = "qpp:jobs:succeeded"
	statsKeyFailed    = "qpp:jobs:failed:%s"
)

// StatsService keeps job outcome counters in Redis. A nil client turns
// every call into a no-op.
type StatsService struct {
	redis *redis.Client
}

func NewStatsService(redisClient *redis.Client) *StatsService {
	return &StatsService{redis: redisClient}
}

// Enabled reports whether counters are backed by Redis
func (s *StatsService) Enabled() bool {
	return s != nil && s.redis != nil
}

// Record counts one finished job. err is the job's error, nil on success.
func (s *StatsService) Record(ctx context.Context, err error) error {
	if !s.Enabled() {
		return nil
	}

	outcome := statsKeySucceeded
	if err != nil {
		outcome = fmt.Sprintf(statsKeyFailed, model.KindOf(err))
	}

	pipe := s.redis.TxPipeline()
	pipe.Incr(ctx, statsKeyTotal)
	pipe.Incr(ctx, outcome)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record job outcome: %w", err)
	}
	return nil
}

// Snapshot returns the current counters
func (s *StatsService) Snapshot(ctx context.Context) (*model.JobStats, error) {
	stats := &model.JobStats{Failed: make(map[model.ErrorKind]int64, len(model.ErrorKinds))}
	for _, kind := range model.ErrorKinds {
		stats.Failed[kind] = 0
	}
	if !s.Enabled() {
		return stats, nil
	}

	keys := []string{statsKeyTotal, statsKeySucceeded}
	for _, kind := range model.ErrorKinds {
		keys = append(keys, fmt.Sprintf(statsKeyFailed, kind))
	}

	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read job stats: %w", err)
	}

	counts := make([]int64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid counter %s: %w", keys[i], err)
		}
		counts[i] = n
	}

	stats.Total = counts[0]
	stats.Succeeded = counts[1]
	for i, kind := range model.ErrorKinds {
		stats.Failed[kind] = counts[i+2]
	}
	return stats, nil
}

// Ping checks the Redis connection
func (s *StatsService) Ping(ctx context.Context) bool {
	if !s.Enabled() {
		return false
	}
	return s.redis.Ping(ctx).Err() == nil
}
