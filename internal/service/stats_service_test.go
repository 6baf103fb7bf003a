package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/qppgateway/api/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStats(t *testing.T) (*StatsService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStatsService(client), mr
}

func TestStatsService_Record(t *testing.T) {
	stats, mr := newTestStats(t)
	ctx := context.Background()

	require.NoError(t, stats.Record(ctx, nil))
	require.NoError(t, stats.Record(ctx, nil))
	require.NoError(t, stats.Record(ctx, model.NewSimulatorFailure("simulator exited with code 2: boom")))
	require.NoError(t, stats.Record(ctx, model.NewParseError("x.state", 1, "bad")))

	total, err := mr.Get("qpp:jobs:total")
	require.NoError(t, err)
	assert.Equal(t, "4", total)

	snap, err := stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), snap.Total)
	assert.Equal(t, int64(2), snap.Succeeded)
	assert.Equal(t, int64(1), snap.Failed[model.ErrorKindSimulator])
	assert.Equal(t, int64(1), snap.Failed[model.ErrorKindParse])
	assert.Equal(t, int64(0), snap.Failed[model.ErrorKindIO])
	assert.True(t, stats.Ping(ctx))
}

func TestStatsService_Disabled(t *testing.T) {
	stats := NewStatsService(nil)
	ctx := context.Background()

	assert.False(t, stats.Enabled())
	assert.NoError(t, stats.Record(ctx, nil))
	assert.False(t, stats.Ping(ctx))

	snap, err := stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, snap.Total)
	assert.Len(t, snap.Failed, len(model.ErrorKinds))
}

func TestStatsService_RedisDown(t *testing.T) {
	stats, mr := newTestStats(t)
	mr.Close()

	err := stats.Record(context.Background(), nil)
	assert.Error(t, err)
}
