package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/models"

	"gorm.io/datatypes"
)

type SectionStore interface {
	GetByKey(ctx context.Context, key string) (*models.SiteSection, error)
	Upsert(ctx context.Context, key string, content datatypes.JSON) (*models.SiteSection, error)
}

// SettingsService loads the birthday promotion settings from the site sections.
type SettingsService struct {
	sections SectionStore
	cache    *cache.CacheManager
	ttl      time.Duration
	now      func() time.Time
}

func NewSettingsService(sections SectionStore, cm *cache.CacheManager, ttl time.Duration) *SettingsService {
	return &SettingsService{sections: sections, cache: cm, ttl: ttl, now: time.Now}
}

// Birthday returns the current settings, falling back to the defaults when the section
// is missing or unreadable.
func (s *SettingsService) Birthday(ctx context.Context) models.BirthdaySettings {
	var settings models.BirthdaySettings
	if s.cache != nil {
		if found, _ := s.cache.Get(cache.KeyBirthdaySettings, &settings); found {
			return settings
		}
	}

	settings = models.DefaultBirthdaySettings(s.now())

	section, err := s.sections.GetByKey(ctx, models.BirthdaySettingsKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return settings
	case err != nil:
		logger.FromContext(ctx).Warn("failed to load birthday settings, using defaults", "error", err)
		return settings
	}

	if err := json.Unmarshal(section.Content, &settings); err != nil {
		logger.FromContext(ctx).Warn("malformed birthday settings, using defaults", "error", err)
		return models.DefaultBirthdaySettings(s.now())
	}
	if settings.Benefits == nil {
		settings.Benefits = []string{}
	}

	if s.cache != nil {
		if err := s.cache.Set(cache.KeyBirthdaySettings, settings, s.ttl); err != nil {
			logger.Warn("failed to cache birthday settings", "error", err)
		}
	}
	return settings
}

// UpdateBirthday validates and stores new settings.
func (s *SettingsService) UpdateBirthday(ctx context.Context, settings models.BirthdaySettings) (models.BirthdaySettings, error) {
	if err := settings.Validate(); err != nil {
		return settings, &ValidationError{Field: "content", Message: err.Error()}
	}
	if settings.Benefits == nil {
		settings.Benefits = []string{}
	}

	content, err := json.Marshal(settings)
	if err != nil {
		return settings, err
	}
	if _, err := s.sections.Upsert(ctx, models.BirthdaySettingsKey, content); err != nil {
		return settings, &PersistenceError{Err: err}
	}

	s.Invalidate()
	return settings, nil
}

// Invalidate drops the cached settings on every instance.
func (s *SettingsService) Invalidate() {
	if s.cache == nil {
		return
	}
	s.cache.Delete(cache.KeyBirthdaySettings)
	s.cache.PublishUpdate(cache.EventSectionUpdated, map[string]string{"section_key": models.BirthdaySettingsKey})
}
