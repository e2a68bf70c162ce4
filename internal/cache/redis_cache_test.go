package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSetGetDelete(t *testing.T) {
	cm := NewCacheManager("")
	assert.False(t, cm.IsAvailable())

	require.NoError(t, cm.Set("k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	found, err := cm.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	require.NoError(t, cm.Delete("k"))
	found, err = cm.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocalIncrement(t *testing.T) {
	cm := NewCacheManager("")

	for want := int64(1); want <= 3; want++ {
		got, err := cm.Increment("rate:1.2.3.4", 1, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPublishUpdateWithoutRedisDispatchesAndInvalidates(t *testing.T) {
	cm := NewCacheManager("")
	require.NoError(t, cm.Set(KeyAnalyticsDaily+":7", []int{1}, time.Minute))
	require.NoError(t, cm.Set(KeyBirthdaySettings, "keep", time.Minute))

	var received []Update
	cm.Subscribe(func(u Update) { received = append(received, u) })

	cm.PublishUpdate(EventVisitTracked, map[string]string{"ip_address": "1.2.3.4"})

	require.Len(t, received, 1)
	assert.Equal(t, EventVisitTracked, received[0].Type)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(received[0].Payload, &payload))
	assert.Equal(t, "1.2.3.4", payload["ip_address"])

	var v []int
	found, _ := cm.Get(KeyAnalyticsDaily+":7", &v)
	assert.False(t, found, "analytics cache must be dropped on visit_tracked")

	var s string
	found, _ = cm.Get(KeyBirthdaySettings, &s)
	assert.True(t, found)
}
