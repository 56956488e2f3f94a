package allocation

import (
	"context"

	"kitchen-allocation-api/internal/models"
)

// AvailableCooksGlobally returns the cooks that are not fully booked in the
// shift, counting their tasks across every event.
func (e *Engine) AvailableCooksGlobally(ctx context.Context, shift *models.Shift) []models.Cook {
	total, err := e.ShiftDurationMinutes(shift)
	if err != nil {
		return []models.Cook{}
	}

	cooks := e.knownCooks(ctx)

	e.mu.RLock()
	defer e.mu.RUnlock()

	available := make([]models.Cook, 0, len(cooks))
	for _, c := range cooks {
		id := c.ID
		if e.consumed(shift.ID, &id, nil) < total {
			available = append(available, c)
		}
	}
	return available
}

// AvailableCooksForTask returns the cooks with at least requiredMinutes left
// in the shift. With a nil event the booked time of every event is counted,
// otherwise only the given event's.
//
// No cook can take a task longer than the shift itself, so that case, like a
// nil shift or a non-positive duration, yields an empty result.
func (e *Engine) AvailableCooksForTask(ctx context.Context, shift *models.Shift, requiredMinutes int, event *models.Event) []models.Cook {
	if shift == nil || requiredMinutes <= 0 {
		return []models.Cook{}
	}
	total, err := e.ShiftDurationMinutes(shift)
	if err != nil || requiredMinutes > total {
		return []models.Cook{}
	}

	cooks := e.knownCooks(ctx)

	e.mu.RLock()
	defer e.mu.RUnlock()

	available := make([]models.Cook, 0, len(cooks))
	for _, c := range cooks {
		id := c.ID
		remaining := total - e.consumed(shift.ID, &id, event)
		if remaining >= requiredMinutes {
			available = append(available, c)
		}
	}
	return available
}

// knownCooks asks the registry first and falls back to the distinct cooks
// already assigned to tasks.
func (e *Engine) knownCooks(ctx context.Context) []models.Cook {
	if e.cooks != nil {
		cooks, err := e.cooks.AllCooks(ctx)
		if err == nil {
			return cooks
		}
		e.log.Warn("cook registry unavailable, using cooks seen on tasks", "error", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.observedCooks()
}

// observedCooks must be called with e.mu held
func (e *Engine) observedCooks() []models.Cook {
	seen := make(map[int]struct{})
	var cooks []models.Cook
	for _, t := range e.tasks {
		if !t.HasCook() {
			continue
		}
		if _, ok := seen[*t.CookID]; ok {
			continue
		}
		seen[*t.CookID] = struct{}{}
		if t.Cook != nil {
			cooks = append(cooks, *t.Cook)
		} else {
			cooks = append(cooks, models.Cook{ID: *t.CookID})
		}
	}
	return cooks
}
