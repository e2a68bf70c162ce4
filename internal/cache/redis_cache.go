package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"paradise-vista/configs"
	"paradise-vista/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const updatesChannel = "site_updates"

// Live event types shared by the cache invalidation and the admin feed.
const (
	EventVisitTracked             = "visit_tracked"
	EventReservationCreated       = "reservation_created"
	EventReservationStatusChanged = "reservation_status_changed"
	EventReservationDeleted       = "reservation_deleted"
	EventSectionUpdated           = "section_updated"
)

// Cache keys
const (
	KeyBirthdaySettings = "settings:birthday"
	KeyAnalyticsSummary = "analytics:summary"
	KeyAnalyticsDaily   = "analytics:daily"
	KeyAnalyticsRegions = "analytics:regions"
)

// Update is a live event fanned out to every instance through Redis pub/sub.
type Update struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type CacheManager struct {
	redisClient *redis.Client
	localCache  *cache.Cache
	pubSub      *redis.PubSub
	ctx         context.Context

	mu          sync.RWMutex
	subscribers []func(Update)
	// Prefix-matched keys dropped when an event of the given type arrives.
	invalidations map[string][]string
}

var (
	instance *CacheManager
	once     sync.Once
)

func GetCacheManager() *CacheManager {
	once.Do(func() {
		instance = NewCacheManager(configs.AppConfig.RedisURL)
	})
	return instance
}

// NewCacheManager builds a two-tier cache. An empty or unreachable redisURL leaves
// the manager running on the in-process tier only.
func NewCacheManager(redisURL string) *CacheManager {
	cm := &CacheManager{
		ctx:        context.Background(),
		localCache: cache.New(5*time.Minute, 10*time.Minute),
		invalidations: map[string][]string{
			EventVisitTracked:             {KeyAnalyticsSummary, KeyAnalyticsDaily, KeyAnalyticsRegions},
			EventReservationCreated:       {KeyAnalyticsSummary},
			EventReservationStatusChanged: {KeyAnalyticsSummary},
			EventReservationDeleted:       {KeyAnalyticsSummary},
			EventSectionUpdated:           {KeyBirthdaySettings},
		},
	}
	if redisURL != "" {
		cm.initialize(redisURL)
	}
	return cm
}

func (cm *CacheManager) initialize(redisURL string) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis connection failed, using local cache only", "error", err)
		client.Close()
		return
	}

	logger.Info("redis connection established")
	cm.redisClient = client
	cm.pubSub = client.Subscribe(cm.ctx, updatesChannel)
	go cm.listenForUpdates()
}

func (cm *CacheManager) listenForUpdates() {
	for msg := range cm.pubSub.Channel() {
		var update Update
		if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
			logger.Warn("failed to parse update message", "error", err)
			continue
		}
		cm.dispatch(update)
	}
}

func (cm *CacheManager) dispatch(update Update) {
	for _, prefix := range cm.invalidations[update.Type] {
		cm.deleteLocalPrefix(prefix)
	}

	cm.mu.RLock()
	subscribers := append([]func(Update){}, cm.subscribers...)
	cm.mu.RUnlock()

	for _, fn := range subscribers {
		fn(update)
	}
}

// Subscribe registers fn for every update received by this instance.
func (cm *CacheManager) Subscribe(fn func(Update)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.subscribers = append(cm.subscribers, fn)
}

func (cm *CacheManager) Set(key string, value interface{}, ttl time.Duration) error {
	cm.localCache.Set(key, value, ttl)

	if cm.redisClient != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()

		return cm.redisClient.Set(ctx, key, data, ttl).Err()
	}

	return nil
}

func (cm *CacheManager) Get(key string, target interface{}) (bool, error) {
	if val, found := cm.localCache.Get(key); found {
		data, err := json.Marshal(val)
		if err != nil {
			return false, err
		}
		return true, json.Unmarshal(data, target)
	}

	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()

		data, err := cm.redisClient.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return false, nil
		} else if err != nil {
			return false, err
		}

		cm.localCache.Set(key, json.RawMessage(data), time.Minute)

		return true, json.Unmarshal(data, target)
	}

	return false, nil
}

func (cm *CacheManager) Delete(key string) error {
	cm.localCache.Delete(key)

	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()
		return cm.redisClient.Del(ctx, key).Err()
	}

	return nil
}

func (cm *CacheManager) deleteLocalPrefix(prefix string) {
	for key := range cm.localCache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			cm.localCache.Delete(key)
		}
	}
}

func (cm *CacheManager) invalidateRemote(ctx context.Context, prefixes []string) {
	for _, prefix := range prefixes {
		iter := cm.redisClient.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			cm.redisClient.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			logger.Warn("failed to invalidate redis keys", "prefix", prefix, "error", err)
		}
	}
}

// Increment bumps a counter, starting its ttl on the first increment.
func (cm *CacheManager) Increment(key string, value int64, ttl time.Duration) (int64, error) {
	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()

		count, err := cm.redisClient.IncrBy(ctx, key, value).Result()
		if err != nil {
			return 0, err
		}
		if count == value {
			cm.redisClient.Expire(ctx, key, ttl)
		}
		return count, nil
	}

	// Add fails when the counter already exists, which is the common case.
	_ = cm.localCache.Add(key, int64(0), ttl)
	return cm.localCache.IncrementInt64(key, value)
}

// PublishUpdate fans an event out to every instance. Without Redis it is delivered
// to this instance's subscribers directly.
func (cm *CacheManager) PublishUpdate(eventType string, payload interface{}) {
	update := Update{Type: eventType, Timestamp: time.Now().Unix()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Warn("failed to marshal update payload", "type", eventType, "error", err)
			return
		}
		update.Payload = data
	}

	if cm.redisClient == nil {
		cm.dispatch(update)
		return
	}

	data, _ := json.Marshal(update)
	ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
	defer cancel()

	cm.invalidateRemote(ctx, cm.invalidations[eventType])

	if err := cm.redisClient.Publish(ctx, updatesChannel, data).Err(); err != nil {
		logger.Warn("failed to publish update, delivering locally", "type", eventType, "error", err)
		cm.dispatch(update)
	}
}

func (cm *CacheManager) IsAvailable() bool {
	return cm.redisClient != nil
}

func (cm *CacheManager) Close() error {
	if cm.pubSub != nil {
		cm.pubSub.Close()
	}
	if cm.redisClient != nil {
		return cm.redisClient.Close()
	}
	return nil
}
