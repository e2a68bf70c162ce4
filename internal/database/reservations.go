package database

import (
	"context"

	"paradise-vista/internal/models"

	"gorm.io/gorm"
)

type StatusCount struct {
	Status models.ReservationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type ReservationRepository struct {
	*Repository[models.BirthdayReservation]
	db *gorm.DB
}

func NewReservationRepository(m *DBManager) *ReservationRepository {
	return &ReservationRepository{
		Repository: NewRepository[models.BirthdayReservation](m.WriteDB),
		db:         m.WriteDB,
	}
}

func (r *ReservationRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return r.Exists(ctx, "cpf", cpf)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status models.ReservationStatus, limit, offset int) ([]models.BirthdayReservation, int64, error) {
	opts := ListOptions{Order: "created_at DESC", Limit: limit, Offset: offset}
	if status != "" {
		opts.Filters = map[string]interface{}{"status": status}
	}
	return r.List(ctx, opts)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, notes *string) (*models.BirthdayReservation, error) {
	fields := map[string]interface{}{"status": status}
	if notes != nil {
		fields["notes"] = *notes
	}
	return r.Update(ctx, id, fields)
}

func (r *ReservationRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows := make([]StatusCount, 0)
	err := r.db.WithContext(ctx).Model(&models.BirthdayReservation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
