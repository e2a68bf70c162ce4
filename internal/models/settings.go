package models

import (
	"fmt"
	"time"
)

const BirthdaySettingsKey = "birthday_settings"

// BirthdaySettings is the promotion configuration read from the birthday_settings section.
// It is loaded once per request and passed by value.
type BirthdaySettings struct {
	AvailableMonth int      `json:"availableMonth"`
	AvailableYear  int      `json:"availableYear"`
	MaxCompanions  int      `json:"maxCompanions"`
	Benefits       []string `json:"benefits"`
}

func DefaultBirthdaySettings(now time.Time) BirthdaySettings {
	return BirthdaySettings{
		AvailableMonth: int(now.Month()),
		AvailableYear:  now.Year(),
		MaxCompanions:  5,
		Benefits:       []string{},
	}
}

func (s BirthdaySettings) Validate() error {
	if s.AvailableMonth < 1 || s.AvailableMonth > 12 {
		return fmt.Errorf("availableMonth must be between 1 and 12")
	}
	if s.AvailableYear < 2000 {
		return fmt.Errorf("availableYear is invalid")
	}
	if s.MaxCompanions < 0 {
		return fmt.Errorf("maxCompanions must not be negative")
	}
	return nil
}

// IsSelectable reports whether day can be picked as a visit date: inside the configured
// month/year and not before today. Both arguments are compared as calendar dates.
func (s BirthdaySettings) IsSelectable(day, today time.Time) bool {
	if day.Year() != s.AvailableYear || int(day.Month()) != s.AvailableMonth {
		return false
	}
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(t)
}

// SelectableDates lists the remaining dates of the window in YYYY-MM-DD form.
func (s BirthdaySettings) SelectableDates(today time.Time) []string {
	dates := []string{}
	first := time.Date(s.AvailableYear, time.Month(s.AvailableMonth), 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if s.IsSelectable(d, today) {
			dates = append(dates, d.Format("2006-01-02"))
		}
	}
	return dates
}
