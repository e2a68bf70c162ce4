package services

import (
	"context"
	"fmt"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
)

type VisitAnalyticsStore interface {
	CreatedAtBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
	TopRegions(ctx context.Context, since time.Time, limit int) ([]database.RegionCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountDistinctPages(ctx context.Context) (int64, error)
}

type ReservationCounter interface {
	CountByStatus(ctx context.Context) ([]database.StatusCount, error)
}

type DailyVisits struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Days      []DayCount `json:"days"`
}

type DayCount struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

type RegionReport struct {
	Since   string                 `json:"since"`
	Regions []database.RegionCount `json:"regions"`
}

type AnalyticsSummary struct {
	TotalVisits   int64                  `json:"total_visits"`
	VisitsToday   int64                  `json:"visits_today"`
	DistinctPages int64                  `json:"distinct_pages"`
	Reservations  []database.StatusCount `json:"reservations"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

type AnalyticsService struct {
	visits       VisitAnalyticsStore
	reservations ReservationCounter
	cache        *cache.CacheManager
	ttl          time.Duration
	now          func() time.Time
}

func NewAnalyticsService(visits VisitAnalyticsStore, reservations ReservationCounter, cm *cache.CacheManager, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{visits: visits, reservations: reservations, cache: cm, ttl: ttl, now: time.Now}
}

// Daily returns visits per UTC day for the last n days, today included.
func (s *AnalyticsService) Daily(ctx context.Context, days int) (*DailyVisits, error) {
	if days <= 0 || days > 365 {
		days = 7
	}

	cacheKey := fmt.Sprintf("%s:%d", cache.KeyAnalyticsDaily, days)
	var cached DailyVisits
	if s.cache != nil {
		if found, err := s.cache.Get(cacheKey, &cached); found && err == nil {
			return &cached, nil
		}
	}

	todayStart, todayEnd := UTCDay(s.now())
	startDate := todayStart.AddDate(0, 0, -(days - 1))

	stamps, err := s.visits.CreatedAtBetween(ctx, startDate, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}

	counts := make(map[string]int64)
	for _, ts := range stamps {
		counts[ts.UTC().Format("2006-01-02")]++
	}

	result := fillMissingDays(counts, startDate, todayStart)
	s.store(cacheKey, result)
	return result, nil
}

func fillMissingDays(counts map[string]int64, startDate, endDate time.Time) *DailyVisits {
	result := &DailyVisits{
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Days:      make([]DayCount, 0),
	}

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		result.Days = append(result.Days, DayCount{Date: date, Visits: counts[date]})
	}
	return result
}

// Regions returns the busiest state/city pairs over the last n days.
func (s *AnalyticsService) Regions(ctx context.Context, days, limit int) (*RegionReport, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s:%d:%d", cache.KeyAnalyticsRegions, days, limit)
	var cached RegionReport
	if s.cache != nil {
		if found, err := s.cache.Get(cacheKey, &cached); found && err == nil {
			return &cached, nil
		}
	}

	todayStart, _ := UTCDay(s.now())
	since := todayStart.AddDate(0, 0, -(days - 1))

	regions, err := s.visits.TopRegions(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	result := &RegionReport{Since: since.Format("2006-01-02"), Regions: regions}
	s.store(cacheKey, result)
	return result, nil
}

func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	var cached AnalyticsSummary
	if s.cache != nil {
		if found, err := s.cache.Get(cache.KeyAnalyticsSummary, &cached); found && err == nil {
			return &cached, nil
		}
	}

	now := s.now()
	todayStart, _ := UTCDay(now)

	total, err := s.visits.CountSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}
	today, err := s.visits.CountSince(ctx, todayStart)
	if err != nil {
		return nil, fmt.Errorf("count visits today: %w", err)
	}
	pages, err := s.visits.CountDistinctPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	byStatus, err := s.reservations.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	result := &AnalyticsSummary{
		TotalVisits:   total,
		VisitsToday:   today,
		DistinctPages: pages,
		Reservations:  byStatus,
		GeneratedAt:   now.UTC(),
	}
	s.store(cache.KeyAnalyticsSummary, result)
	return result, nil
}

func (s *AnalyticsService) store(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, value, s.ttl)
}
