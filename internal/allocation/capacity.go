package allocation

import (
	"kitchen-allocation-api/internal/models"
)

// ShiftCapacity summarizes how much of a shift is already booked
type ShiftCapacity struct {
	ShiftID          int     `json:"shiftId"`
	Shift            string  `json:"shift"`
	DurationMinutes  int     `json:"durationMinutes"`
	ConsumedMinutes  int     `json:"consumedMinutes"`
	RemainingMinutes int     `json:"remainingMinutes"`
	Threshold        float64 `json:"saturationThreshold"`
	Saturated        bool    `json:"saturated"`
}

// ShiftDurationMinutes returns the length of the shift. It fails with
// ErrInvalidShiftWindow when the shift does not end after it starts.
func (e *Engine) ShiftDurationMinutes(shift *models.Shift) (int, error) {
	if shift == nil {
		return 0, ErrShiftNotFound
	}
	return shift.DurationMinutes()
}

// ConsumedMinutes sums the duration of the assigned tasks in the shift.
// A nil event counts tasks of every event; otherwise only that event's.
func (e *Engine) ConsumedMinutes(shift *models.Shift, event *models.Event) int {
	if shift == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.consumed(shift.ID, nil, event)
}

// CookConsumedMinutes is ConsumedMinutes restricted to one cook
func (e *Engine) CookConsumedMinutes(cookID int, shift *models.Shift, event *models.Event) int {
	if shift == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.consumed(shift.ID, &cookID, event)
}

// RemainingMinutes is the time cookID can still be given in the shift
func (e *Engine) RemainingMinutes(cookID int, shift *models.Shift, event *models.Event) (int, error) {
	total, err := e.ShiftDurationMinutes(shift)
	if err != nil {
		return 0, err
	}
	return total - e.CookConsumedMinutes(cookID, shift, event), nil
}

// IsShiftSaturated reports whether the booked time (all events) has reached
// the saturation threshold. It is only a warning: tasks can still be added.
func (e *Engine) IsShiftSaturated(shift *models.Shift) bool {
	total, err := e.ShiftDurationMinutes(shift)
	if err != nil {
		return false
	}
	return float64(e.ConsumedMinutes(shift, nil)) >= float64(total)*e.saturation
}

// Capacity reports duration, consumed and remaining minutes for the shift.
// Saturation is always computed over every event.
func (e *Engine) Capacity(shift *models.Shift, event *models.Event) (ShiftCapacity, error) {
	total, err := e.ShiftDurationMinutes(shift)
	if err != nil {
		return ShiftCapacity{}, err
	}
	consumed := e.ConsumedMinutes(shift, event)
	return ShiftCapacity{
		ShiftID:          shift.ID,
		Shift:            shift.Label(),
		DurationMinutes:  total,
		ConsumedMinutes:  consumed,
		RemainingMinutes: total - consumed,
		Threshold:        e.saturation,
		Saturated:        e.IsShiftSaturated(shift),
	}, nil
}

// consumed must be called with e.mu held
func (e *Engine) consumed(shiftID int, cookID *int, event *models.Event) int {
	total := 0
	for _, t := range e.tasks {
		if t.ShiftID != shiftID || !t.HasCook() {
			continue
		}
		if cookID != nil && *t.CookID != *cookID {
			continue
		}
		if event != nil && (t.EventID == nil || *t.EventID != event.ID) {
			continue
		}
		total += t.DurationMinutes
	}
	return total
}
