package database

import (
	"context"
	"time"

	"paradise-vista/internal/models"

	"gorm.io/gorm"
)

type RegionCount struct {
	State  *string `json:"state"`
	City   *string `json:"city"`
	Visits int64   `json:"visits"`
}

type VisitRepository struct {
	write *gorm.DB
	read  func() *gorm.DB
}

func NewVisitRepository(m *DBManager) *VisitRepository {
	return &VisitRepository{write: m.WriteDB, read: m.GetReadDB}
}

// ExistsBetween reports whether ip already has a visit in [from, to).
// Reads go to the write connection so a just-inserted row is always seen.
func (r *VisitRepository) ExistsBetween(ctx context.Context, ip string, from, to time.Time) (bool, error) {
	var count int64
	err := r.write.WithContext(ctx).Model(&models.Visit{}).
		Where("ip_address = ? AND created_at >= ? AND created_at < ?", ip, from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	return r.write.WithContext(ctx).Create(visit).Error
}

// CreatedAtBetween returns the creation times of visits in [from, to) for bucketing.
func (r *VisitRepository) CreatedAtBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.read().WithContext(ctx).Model(&models.Visit{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("created_at", &stamps).Error
	return stamps, err
}

func (r *VisitRepository) TopRegions(ctx context.Context, since time.Time, limit int) ([]RegionCount, error) {
	rows := make([]RegionCount, 0)
	err := r.read().WithContext(ctx).Model(&models.Visit{}).
		Select("state, city, COUNT(*) AS visits").
		Where("created_at >= ?", since).
		Group("state, city").
		Order("visits DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *VisitRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.read().WithContext(ctx).Model(&models.Visit{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *VisitRepository) CountDistinctPages(ctx context.Context) (int64, error) {
	var count int64
	err := r.read().WithContext(ctx).Model(&models.Visit{}).
		Distinct("page_path").
		Count(&count).Error
	return count, err
}
