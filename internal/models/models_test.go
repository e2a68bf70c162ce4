package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationTransitions(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		allowed  bool
	}{
		{ReservationPending, ReservationApproved, true},
		{ReservationPending, ReservationRejected, true},
		{ReservationApproved, ReservationCompleted, true},
		{ReservationPending, ReservationCompleted, false},
		{ReservationRejected, ReservationApproved, false},
		{ReservationCompleted, ReservationPending, false},
		{ReservationApproved, ReservationPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.Empty(t, ReservationRejected.NextStatuses())
	assert.ElementsMatch(t,
		[]ReservationStatus{ReservationApproved, ReservationRejected},
		ReservationPending.NextStatuses())
}

func TestBirthdaySettingsSelectableDates(t *testing.T) {
	s := BirthdaySettings{AvailableMonth: 2, AvailableYear: 2027, MaxCompanions: 3}
	today := time.Date(2027, 2, 25, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2027-02-25", "2027-02-26", "2027-02-27", "2027-02-28"}, s.SelectableDates(today))
	assert.False(t, s.IsSelectable(time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), today))
	assert.False(t, s.IsSelectable(time.Date(2027, 2, 24, 0, 0, 0, 0, time.UTC), today))
	assert.True(t, s.IsSelectable(time.Date(2027, 2, 25, 0, 0, 0, 0, time.UTC), today))
}

func TestBirthdaySettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultBirthdaySettings(time.Now()).Validate())
	assert.Error(t, BirthdaySettings{AvailableMonth: 13, AvailableYear: 2027}.Validate())
	assert.Error(t, BirthdaySettings{AvailableMonth: 1, AvailableYear: 2027, MaxCompanions: -1}.Validate())
}
