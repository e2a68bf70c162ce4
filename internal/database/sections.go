package database

import (
	"context"
	"errors"

	"paradise-vista/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(m *DBManager) *SectionRepository {
	return &SectionRepository{db: m.WriteDB}
}

func (r *SectionRepository) GetByKey(ctx context.Context, key string) (*models.SiteSection, error) {
	var section models.SiteSection
	err := r.db.WithContext(ctx).Where("section_key = ?", key).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SectionRepository) List(ctx context.Context) ([]models.SiteSection, error) {
	sections := make([]models.SiteSection, 0)
	err := r.db.WithContext(ctx).Order("section_key").Find(&sections).Error
	return sections, err
}

// Upsert replaces the content of the section, creating it when missing.
func (r *SectionRepository) Upsert(ctx context.Context, key string, content datatypes.JSON) (*models.SiteSection, error) {
	section := models.SiteSection{SectionKey: key, Content: content}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&section).Error
	if err != nil {
		return nil, err
	}
	return r.GetByKey(ctx, key)
}

func (r *SectionRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("section_key = ?", key).Delete(&models.SiteSection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
