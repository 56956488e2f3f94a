package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layouts used for the shift date and clock fields
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrInvalidShiftWindow is returned when a shift does not end strictly after it starts
var ErrInvalidShiftWindow = errors.New("shift must end after it starts")

// Shift represents a dated work window in which kitchen tasks are performed
type Shift struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Date      string    `json:"date" gorm:"not null"`
	StartTime string    `json:"startTime" gorm:"column:start_time;not null"`
	EndTime   string    `json:"endTime" gorm:"column:end_time;not null"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Editable  bool      `json:"editable" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Shift Model
func (Shift) TableName() string {
	return "shifts"
}

// Label is the human readable "{date} {start}-{end}" form of the shift.
// Two shifts may share a label, so it is never used to correlate tasks.
func (s Shift) Label() string {
	return fmt.Sprintf("%s %s-%s", s.Date, s.StartTime, s.EndTime)
}

// DurationMinutes returns end - start in minutes
func (s Shift) DurationMinutes() (int, error) {
	start, end, err := parseWindow(s.StartTime, s.EndTime)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start) / time.Minute), nil
}

// ValidateShiftWindow checks the date and clock strings and returns them normalized
// (e.g. "9:00" becomes "09:00").
func ValidateShiftWindow(date, startTime, endTime string) (string, string, string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", "", "", fmt.Errorf("invalid shift date %q: %w", date, err)
	}
	start, end, err := parseWindow(startTime, endTime)
	if err != nil {
		return "", "", "", err
	}
	return d.Format(DateLayout), start.Format(ClockLayout), end.Format(ClockLayout), nil
}

func parseWindow(startTime, endTime string) (time.Time, time.Time, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q: %w", endTime, err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidShiftWindow
	}
	return start, end, nil
}

func parseClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{
		ClockLayout, // 09:00, also accepts 9:00
		"15:04:05",  // 09:00:00
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
