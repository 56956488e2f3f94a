package allocation

import (
	"context"

	"kitchen-allocation-api/internal/models"
)

// ShiftInput describes a shift to create
type ShiftInput struct {
	Date      string
	StartTime string
	EndTime   string
	Location  string
	Type      string
}

// CreateShift validates the window and stores a new editable shift
func (e *Engine) CreateShift(ctx context.Context, in ShiftInput) (models.Shift, error) {
	date, start, end, err := models.ValidateShiftWindow(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return models.Shift{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	shift := &models.Shift{
		ID:        e.nextShiftID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Location:  in.Location,
		Type:      in.Type,
		Editable:  true,
	}
	e.nextShiftID++
	e.shifts = append(e.shifts, shift)
	e.persistShift(ctx, shift)

	e.log.Info("shift created", "shift_id", shift.ID, "shift", shift.Label())
	return *shift, nil
}

// UpdateShiftTimes changes the start and end of a shift. A shift that is not
// editable is left alone and updated is false.
func (e *Engine) UpdateShiftTimes(ctx context.Context, id int, startTime, endTime string) (shift models.Shift, updated bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, s := e.findShift(id)
	if s == nil {
		return models.Shift{}, false, ErrShiftNotFound
	}
	if !s.Editable {
		return *s, false, nil
	}

	_, start, end, err := models.ValidateShiftWindow(s.Date, startTime, endTime)
	if err != nil {
		return *s, false, err
	}
	s.StartTime = start
	s.EndTime = end

	// keep the display label of the shift's tasks in step
	for _, t := range e.tasks {
		if t.ShiftID == s.ID {
			t.ShiftLabel = s.Label()
			e.persistTask(ctx, t)
		}
	}
	e.persistShift(ctx, s)
	return *s, true, nil
}

// SetShiftEditable locks or unlocks the shift's times
func (e *Engine) SetShiftEditable(ctx context.Context, id int, editable bool) (models.Shift, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, s := e.findShift(id)
	if s == nil {
		return models.Shift{}, ErrShiftNotFound
	}
	s.Editable = editable
	e.persistShift(ctx, s)
	return *s, nil
}

// DeleteShift removes a shift no task refers to
func (e *Engine) DeleteShift(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, s := e.findShift(id)
	if s == nil {
		return ErrShiftNotFound
	}
	for _, t := range e.tasks {
		if t.ShiftID == id {
			return ErrShiftInUse
		}
	}
	e.shifts = append(e.shifts[:i], e.shifts[i+1:]...)
	e.forgetShift(ctx, id)
	return nil
}

// Shift returns the shift with the given id
func (e *Engine) Shift(id int) (models.Shift, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, s := e.findShift(id)
	if s == nil {
		return models.Shift{}, false
	}
	return *s, true
}

// Shifts returns every shift in creation order
func (e *Engine) Shifts() []models.Shift {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Shift, 0, len(e.shifts))
	for _, s := range e.shifts {
		out = append(out, *s)
	}
	return out
}
