package services

import (
	"context"
	"testing"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/models"
	"paradise-vista/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBirthdaySettingsDefaults(t *testing.T) {
	sections := database.NewSectionRepository(testutil.NewTestDB(t))
	svc := NewSettingsService(sections, nil, time.Minute)
	svc.now = fixedClock(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	s := svc.Birthday(context.Background())
	assert.Equal(t, 3, s.AvailableMonth)
	assert.Equal(t, 2026, s.AvailableYear)
	assert.Equal(t, 5, s.MaxCompanions)
	assert.Empty(t, s.Benefits)
}

func TestBirthdaySettingsFromSection(t *testing.T) {
	ctx := context.Background()
	sections := database.NewSectionRepository(testutil.NewTestDB(t))
	_, err := sections.Upsert(ctx, models.BirthdaySettingsKey,
		datatypes.JSON(`{"availableMonth":11,"availableYear":2026,"maxCompanions":3,"benefits":["Day use grátis"]}`))
	require.NoError(t, err)

	cm := cache.NewCacheManager("")
	svc := NewSettingsService(sections, cm, time.Minute)

	s := svc.Birthday(ctx)
	assert.Equal(t, models.BirthdaySettings{AvailableMonth: 11, AvailableYear: 2026, MaxCompanions: 3, Benefits: []string{"Day use grátis"}}, s)

	// served from cache until invalidated
	_, err = sections.Upsert(ctx, models.BirthdaySettingsKey, datatypes.JSON(`{"availableMonth":12,"availableYear":2026,"maxCompanions":1}`))
	require.NoError(t, err)
	assert.Equal(t, 11, svc.Birthday(ctx).AvailableMonth)

	svc.Invalidate()
	assert.Equal(t, 12, svc.Birthday(ctx).AvailableMonth)
}

func TestUpdateBirthdaySettings(t *testing.T) {
	ctx := context.Background()
	sections := database.NewSectionRepository(testutil.NewTestDB(t))
	svc := NewSettingsService(sections, cache.NewCacheManager(""), time.Minute)

	_, err := svc.UpdateBirthday(ctx, models.BirthdaySettings{AvailableMonth: 13, AvailableYear: 2026})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.UpdateBirthday(ctx, models.BirthdaySettings{AvailableMonth: 12, AvailableYear: 2026, MaxCompanions: 2})
	require.NoError(t, err)

	s := svc.Birthday(ctx)
	assert.Equal(t, 12, s.AvailableMonth)
	assert.Equal(t, 2, s.MaxCompanions)
	assert.Equal(t, []string{}, s.Benefits)
}
