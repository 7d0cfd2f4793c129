//go:build integration

package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"eventops/internal/redemption"
	"eventops/pkg/domain"
	"eventops/pkg/testutil/containers"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	cache := NewRedisCache(rc.Client, 2*time.Second, "station-1")
	key := Key{
		EventID:  domain.EventID(uuid.New()),
		Type:     domain.ResourceFood,
		OptionID: domain.OptionID(uuid.New()),
		Code:     "QR-9",
	}

	_, ok := cache.Lookup(ctx, key)
	require.False(t, ok)

	result := &redemption.RecordResult{
		Status: redemption.StatusRecorded,
		Record: &redemption.UsageRecord{ID: domain.NewRecordID()},
	}
	cache.Remember(ctx, key, result)

	cached, ok := cache.Lookup(ctx, key)
	require.True(t, ok)
	require.Equal(t, result.Record.ID, cached.Record.ID)
	require.Equal(t, redemption.StatusRecorded, cached.Status)
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	cache := NewRedisCache(rc.Client, time.Second, "station-1")
	key := Key{
		EventID:  domain.EventID(uuid.New()),
		Type:     domain.ResourceKit,
		OptionID: domain.OptionID(uuid.New()),
		Code:     "QR-10",
	}
	cache.Remember(ctx, key, &redemption.RecordResult{Status: redemption.StatusRecorded})

	_, ok := cache.Lookup(ctx, key)
	require.True(t, ok)

	time.Sleep(1500 * time.Millisecond)
	_, ok = cache.Lookup(ctx, key)
	require.False(t, ok, "redis expired the suppression window")
}

func TestRedisCacheNamespacePerStation(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	key := Key{
		EventID:  domain.EventID(uuid.New()),
		Type:     domain.ResourceKit,
		OptionID: domain.OptionID(uuid.New()),
		Code:     "QR-11",
	}
	one := NewRedisCache(rc.Client, time.Minute, "station-1")
	two := NewRedisCache(rc.Client, time.Minute, "station-2")

	one.Remember(ctx, key, &redemption.RecordResult{Status: redemption.StatusRecorded})

	_, ok := one.Lookup(ctx, key)
	require.True(t, ok)
	_, ok = two.Lookup(ctx, key)
	require.False(t, ok, "one station's window never hides another station's scan")
}
