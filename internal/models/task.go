package models

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidImportance = errors.New("importance must be 1 (low), 3 (medium) or 5 (high)")
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusToStart    TaskStatus = "To start"
	StatusInProgress TaskStatus = "In progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusBlocked    TaskStatus = "Blocked"
)

// TaskStatuses lists every status in display order
var TaskStatuses = []TaskStatus{StatusToStart, StatusInProgress, StatusCompleted, StatusBlocked}

// ParseTaskStatus matches a status case-insensitively.
// Any status can move to any other, there are no transition rules.
func ParseTaskStatus(value string) (TaskStatus, error) {
	value = strings.TrimSpace(value)
	for _, s := range TaskStatuses {
		if strings.EqualFold(string(s), value) {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// Valid reports whether s is exactly one of the known statuses.
// Use ParseTaskStatus to accept other spellings.
func (s TaskStatus) Valid() bool {
	return slices.Contains(TaskStatuses, s)
}

// Importance ranks a task; higher is more urgent
type Importance int

const (
	ImportanceLow    Importance = 1
	ImportanceMedium Importance = 3
	ImportanceHigh   Importance = 5
)

// Valid reports whether i is 1, 3 or 5
func (i Importance) Valid() bool {
	return i == ImportanceLow || i == ImportanceMedium || i == ImportanceHigh
}

func (i Importance) String() string {
	switch i {
	case ImportanceHigh:
		return "high"
	case ImportanceMedium:
		return "medium"
	case ImportanceLow:
		return "low"
	}
	return "invalid"
}

// ParseImportance accepts the numeric levels or their names
func ParseImportance(value string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "5", "high":
		return ImportanceHigh, nil
	case "3", "medium":
		return ImportanceMedium, nil
	case "1", "low":
		return ImportanceLow, nil
	}
	return 0, ErrInvalidImportance
}

// Task represents a unit of kitchen work: a recipe to prepare in a given
// quantity, by a cook, within a shift.
//
// Recipe, Cook and Event are weak references. The id fields are what gets
// persisted; the pointers are filled in by reference resolution and must stay
// consistent with the ids, so always go through the Assign* helpers.
type Task struct {
	ID              int        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RecipeID        *int       `json:"recipeId" gorm:"column:recipe_id;index"`
	CookID          *int       `json:"cookId" gorm:"column:cook_id;index"`
	EventID         *int       `json:"eventId" gorm:"column:event_id;index"`
	ShiftID         int        `json:"shiftId" gorm:"column:shift_id;index"`
	ShiftLabel      string     `json:"shift" gorm:"column:shift_label"`
	DurationMinutes int        `json:"durationMinutes" gorm:"column:duration_minutes;not null"`
	Quantity        float64    `json:"quantity" gorm:"not null"`
	Status          TaskStatus `json:"status" gorm:"not null"`
	Importance      Importance `json:"importance" gorm:"not null"`
	Recipe          *Recipe    `json:"recipe,omitempty" gorm:"-"`
	Cook            *Cook      `json:"cook,omitempty" gorm:"-"`
	Event           *Event     `json:"event,omitempty" gorm:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// AssignRecipe sets the recipe and its id together
func (t *Task) AssignRecipe(r *Recipe) {
	t.Recipe = r
	t.RecipeID = nil
	if r != nil {
		t.RecipeID = intPtr(r.ID)
	}
}

// AssignCook sets the cook and its id together; nil unassigns the task
func (t *Task) AssignCook(c *Cook) {
	t.Cook = c
	t.CookID = nil
	if c != nil {
		t.CookID = intPtr(c.ID)
	}
}

// AssignEvent sets the event and its id together; nil means unscoped
func (t *Task) AssignEvent(e *Event) {
	t.Event = e
	t.EventID = nil
	if e != nil {
		t.EventID = intPtr(e.ID)
	}
}

// AssignShift points the task at a shift and refreshes the display label
func (t *Task) AssignShift(s Shift) {
	t.ShiftID = s.ID
	t.ShiftLabel = s.Label()
}

// HasCook reports whether a cook is assigned
func (t *Task) HasCook() bool {
	return t.CookID != nil
}

// IsCompleted reports whether the task is in the Completed status
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

func intPtr(v int) *int {
	return &v
}
