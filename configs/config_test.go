package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("RATE_LIMIT_PER_HOUR", "42")
	t.Setenv("ENABLE_WEBSOCKET", "false")
	t.Setenv("UPLOAD_BUCKETS", " gallery , rooms,,")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "9090", AppConfig.ServerPort)
	assert.Equal(t, 90*time.Second, AppConfig.CacheTTL)
	assert.Equal(t, 42, AppConfig.RateLimitPerHour)
	assert.False(t, AppConfig.EnableWebSocket)
	assert.Equal(t, []string{"gallery", "rooms"}, AppConfig.UploadBuckets)
}

func TestParseHelpersFallBack(t *testing.T) {
	assert.Equal(t, 0, parseInt("abc"))
	assert.False(t, parseBool("maybe"))
	assert.Equal(t, time.Hour, parseDuration("soon"))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{BusinessTimezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
