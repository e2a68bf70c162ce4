package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type ListOptions struct {
	// Equality filters keyed by column name. Callers must only pass whitelisted columns.
	Filters map[string]interface{}
	Order   string
	Limit   int
	Offset  int
}

// Repository is the table-agnostic data access used by the CMS managers:
// select with filter, insert, update by id, delete by id.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	for column, value := range opts.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Order != "" {
		query = query.Order(opts.Order)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}

	items := make([]T, 0)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository[T]) FindOne(ctx context.Context, column string, value interface{}) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", column), value).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository[T]) Exists(ctx context.Context, column string, value interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(fmt.Sprintf("%s = ?", column), value).Count(&count).Error
	return count > 0, err
}

func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update applies the given column values to the row and returns the fresh row.
func (r *Repository[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

// Replace writes every column of item over the existing row with the given id.
// It never inserts: a row deleted in the meantime yields ErrNotFound.
func (r *Repository[T]) Replace(ctx context.Context, id string, item *T) error {
	result := r.db.WithContext(ctx).Model(item).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
