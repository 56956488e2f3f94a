package allocation

import (
	"cmp"
	"slices"
	"strings"

	"kitchen-allocation-api/internal/models"
)

// Status filter values that disable filtering
const (
	StatusFilterAll        = "All"
	statusFilterAllItalian = "Tutti"
)

// TaskSummary counts tasks by completion
type TaskSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// OrderByImportance returns a copy of tasks sorted by importance, then by
// duration, both descending. Equal tasks keep their input order.
func OrderByImportance(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		if c := cmp.Compare(b.Importance, a.Importance); c != 0 {
			return c
		}
		return cmp.Compare(b.DurationMinutes, a.DurationMinutes)
	})
	return out
}

// FilterByStatus keeps the tasks whose status matches, ignoring case.
// "All" (or "Tutti") and "" return every task.
func FilterByStatus(tasks []models.Task, status string) []models.Task {
	status = strings.TrimSpace(status)
	if status == "" || strings.EqualFold(status, StatusFilterAll) || strings.EqualFold(status, statusFilterAllItalian) {
		return slices.Clone(tasks)
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.EqualFold(string(t.Status), status) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize counts completed and remaining tasks
func Summarize(tasks []models.Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted() {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

// Tasks returns every task in creation order
func (e *Engine) Tasks() []models.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshot(e.tasks)
}

// Task returns the task with the given id
func (e *Engine) Task(id int) (models.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, t := e.findTask(id)
	if t == nil {
		return models.Task{}, false
	}
	return *t, true
}

// TasksForShift returns the tasks booked in the shift
func (e *Engine) TasksForShift(shift *models.Shift) []models.Task {
	out := []models.Task{}
	if shift == nil {
		return out
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, t := range e.tasks {
		if t.ShiftID == shift.ID {
			out = append(out, *t)
		}
	}
	return out
}

// TasksForEvent returns the tasks of the event; a nil event returns all tasks
func (e *Engine) TasksForEvent(event *models.Event) []models.Task {
	if event == nil {
		return e.Tasks()
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []models.Task{}
	for _, t := range e.tasks {
		if t.EventID != nil && *t.EventID == event.ID {
			out = append(out, *t)
		}
	}
	return out
}
