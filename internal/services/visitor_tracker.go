package services

import (
	"context"
	"fmt"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/metrics"
	"paradise-vista/internal/models"
)

const (
	UnknownAddress = "unknown"
	DefaultCountry = "BR"
)

type VisitStore interface {
	ExistsBetween(ctx context.Context, ip string, from, to time.Time) (bool, error)
	Create(ctx context.Context, visit *models.Visit) error
}

type VisitInput struct {
	IPAddress string
	UserAgent string
	PagePath  string
}

type TrackResult struct {
	AlreadyTracked bool
	GeoResolved    bool
	Visit          *models.Visit
}

// VisitorTracker records at most one visit per address per UTC day.
// The check-then-insert is not atomic: concurrent first visits may both be stored.
type VisitorTracker struct {
	store VisitStore
	geo   GeoLocator
	cache *cache.CacheManager
	now   func() time.Time
}

func NewVisitorTracker(store VisitStore, geo GeoLocator, cm *cache.CacheManager) *VisitorTracker {
	return &VisitorTracker{store: store, geo: geo, cache: cm, now: time.Now}
}

// UTCDay returns [start, end) of the UTC calendar day containing t.
func UTCDay(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func trackedKey(ip string, day time.Time) string {
	return fmt.Sprintf("visit:tracked:%s:%s", ip, day.Format("2006-01-02"))
}

func (t *VisitorTracker) Track(ctx context.Context, in VisitInput) (*TrackResult, error) {
	log := logger.FromContext(ctx)

	if in.IPAddress == "" {
		in.IPAddress = UnknownAddress
	}
	if in.PagePath == "" {
		in.PagePath = "/"
	}

	now := t.now().UTC()
	dayStart, dayEnd := UTCDay(now)

	if t.cache != nil {
		var tracked bool
		if found, _ := t.cache.Get(trackedKey(in.IPAddress, dayStart), &tracked); found && tracked {
			metrics.VisitsTracked.WithLabelValues("already_tracked").Inc()
			return &TrackResult{AlreadyTracked: true}, nil
		}
	}

	exists, err := t.store.ExistsBetween(ctx, in.IPAddress, dayStart, dayEnd)
	if err != nil {
		log.Warn("visit dedup check failed, recording anyway", "ip", in.IPAddress, "error", err)
	} else if exists {
		t.remember(in.IPAddress, dayStart, dayEnd, now)
		metrics.VisitsTracked.WithLabelValues("already_tracked").Inc()
		return &TrackResult{AlreadyTracked: true}, nil
	}

	visit := &models.Visit{
		IPAddress: in.IPAddress,
		PagePath:  in.PagePath,
		Country:   DefaultCountry,
		CreatedAt: now,
	}
	if in.UserAgent != "" {
		ua := in.UserAgent
		visit.UserAgent = &ua
	}

	geoResolved := t.enrich(ctx, visit)

	if err := t.store.Create(ctx, visit); err != nil {
		metrics.VisitsTracked.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	t.remember(in.IPAddress, dayStart, dayEnd, now)
	metrics.VisitsTracked.WithLabelValues("tracked").Inc()
	if t.cache != nil {
		t.cache.PublishUpdate(cache.EventVisitTracked, visit)
	}

	return &TrackResult{GeoResolved: geoResolved, Visit: visit}, nil
}

// enrich fills state, city and country from the geolocator. Any failure leaves the
// defaults (nil, nil, BR) in place.
func (t *VisitorTracker) enrich(ctx context.Context, visit *models.Visit) bool {
	if t.geo == nil {
		return false
	}

	loc, err := t.geo.Lookup(ctx, visit.IPAddress)
	if err != nil || loc == nil {
		metrics.GeolocationLookups.WithLabelValues("failed").Inc()
		logger.FromContext(ctx).Warn("geolocation lookup failed", "ip", visit.IPAddress, "error", err)
		return false
	}

	metrics.GeolocationLookups.WithLabelValues("ok").Inc()
	if loc.State != "" {
		state := loc.State
		visit.State = &state
	}
	if loc.City != "" {
		city := loc.City
		visit.City = &city
	}
	if loc.Country != "" {
		visit.Country = loc.Country
	}
	return true
}

func (t *VisitorTracker) remember(ip string, dayStart, dayEnd, now time.Time) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Set(trackedKey(ip, dayStart), true, dayEnd.Sub(now)); err != nil {
		logger.Warn("failed to cache tracked visit", "ip", ip, "error", err)
	}
}
