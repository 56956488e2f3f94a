package allocation

import (
	"context"
	"fmt"
	"math"

	"kitchen-allocation-api/internal/models"
)

// AssignMode chooses how a new task accounts for work already planned for
// the same recipe within the event.
type AssignMode string

const (
	// AssignFull creates the task for the requested quantity, less what is
	// already completed, ignoring open tasks.
	AssignFull AssignMode = "full"
	// AssignReduced only creates the shortfall left after open tasks.
	AssignReduced AssignMode = "reduced"
	// AssignStrict behaves like AssignFull but refuses with ErrOpenTasksExist
	// when the recipe already has open tasks in the event.
	AssignStrict AssignMode = "strict"
)

// ParseAssignMode maps "" to AssignFull
func ParseAssignMode(value string) (AssignMode, error) {
	switch AssignMode(value) {
	case "", AssignFull:
		return AssignFull, nil
	case AssignReduced:
		return AssignReduced, nil
	case AssignStrict:
		return AssignStrict, nil
	}
	return "", fmt.Errorf("unknown assign mode %q", value)
}

// AssignRequest describes a new task
type AssignRequest struct {
	ShiftID         int
	Recipe          *models.Recipe
	Cook            *models.Cook
	Event           *models.Event
	DurationMinutes int
	Quantity        float64
	// Importance defaults to low when zero.
	Importance models.Importance
	Mode       AssignMode
	// EnforceCapacity refuses the task with ErrCapacityExceeded when the cook
	// has less than DurationMinutes left in the shift across all events.
	EnforceCapacity bool
}

// Assignment is the outcome of Assign
type Assignment struct {
	Task models.Task `json:"task"`
	Plan Plan        `json:"plan"`
}

// TaskUpdate carries the fields to change on a task; nil leaves a field as is
type TaskUpdate struct {
	DurationMinutes *int
	Quantity        *float64
	Importance      *models.Importance
	Status          *models.TaskStatus
}

// Assign creates a task for the request.
//
// The completed quantity of the recipe within the event is always taken off
// the requested quantity. In AssignReduced mode the quantity of the open
// tasks is taken off as well. A task whose quantity ends up at zero is still
// created, with zero duration, so the request stays visible in the history.
//
// Reconciliation, the AssignStrict refusal, the optional capacity check and
// the creation happen under one lock. A refused AssignStrict request still
// returns the plan.
func (e *Engine) Assign(ctx context.Context, req AssignRequest) (Assignment, error) {
	if req.Recipe == nil {
		return Assignment{}, ErrRecipeRequired
	}
	if req.DurationMinutes < 0 {
		return Assignment{}, ErrInvalidDuration
	}
	if req.Quantity < 0 || math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) {
		return Assignment{}, ErrInvalidQuantity
	}
	importance := req.Importance
	if importance == 0 {
		importance = models.ImportanceLow
	}
	if !importance.Valid() {
		return Assignment{}, ErrInvalidImportance
	}
	mode := req.Mode
	if mode == "" {
		mode = AssignFull
	}
	if mode != AssignFull && mode != AssignReduced && mode != AssignStrict {
		return Assignment{}, fmt.Errorf("unknown assign mode %q", mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, shift := e.findShift(req.ShiftID)
	if shift == nil {
		return Assignment{}, ErrShiftNotFound
	}

	plan := e.plan(req.Event, req.Recipe, req.Quantity)
	if mode == AssignStrict && plan.HasExisting() {
		return Assignment{Plan: plan}, ErrOpenTasksExist
	}

	quantity := plan.NetNeeded
	if mode == AssignReduced {
		quantity = plan.Shortfall
	}
	duration := req.DurationMinutes
	if quantity == 0 {
		duration = 0
	}

	if req.EnforceCapacity && req.Cook != nil && duration > 0 {
		total, err := shift.DurationMinutes()
		if err != nil {
			return Assignment{}, err
		}
		cookID := req.Cook.ID
		if total-e.consumed(shift.ID, &cookID, nil) < duration {
			return Assignment{}, ErrCapacityExceeded
		}
	}

	task := &models.Task{
		ID:              e.nextTaskID,
		DurationMinutes: duration,
		Quantity:        quantity,
		Status:          models.StatusToStart,
		Importance:      importance,
	}
	task.AssignShift(*shift)
	task.AssignRecipe(req.Recipe)
	task.AssignCook(req.Cook)
	task.AssignEvent(req.Event)

	e.nextTaskID++
	e.tasks = append(e.tasks, task)
	e.persistTask(ctx, task)

	e.log.Info("task assigned",
		"task_id", task.ID,
		"shift_id", task.ShiftID,
		"recipe", req.Recipe.Name,
		"mode", string(mode),
		"quantity", quantity,
		"duration_minutes", duration,
	)
	return Assignment{Task: *task, Plan: plan}, nil
}

// UpdateTask applies the non-nil fields of upd. Every field is validated
// before anything changes. The status is stored in its canonical spelling
// and a task left with zero quantity books no time, as on creation.
func (e *Engine) UpdateTask(ctx context.Context, id int, upd TaskUpdate) (models.Task, error) {
	if upd.DurationMinutes != nil && *upd.DurationMinutes < 0 {
		return models.Task{}, ErrInvalidDuration
	}
	if upd.Quantity != nil && (*upd.Quantity < 0 || math.IsNaN(*upd.Quantity) || math.IsInf(*upd.Quantity, 0)) {
		return models.Task{}, ErrInvalidQuantity
	}
	if upd.Importance != nil && !upd.Importance.Valid() {
		return models.Task{}, ErrInvalidImportance
	}
	var status models.TaskStatus
	if upd.Status != nil {
		s, err := models.ParseTaskStatus(string(*upd.Status))
		if err != nil {
			return models.Task{}, err
		}
		status = s
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, task := e.findTask(id)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}

	if upd.DurationMinutes != nil {
		task.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Quantity != nil {
		task.Quantity = *upd.Quantity
	}
	if upd.Importance != nil {
		task.Importance = *upd.Importance
	}
	if upd.Status != nil {
		task.Status = status
	}
	if task.Quantity == 0 {
		task.DurationMinutes = 0
	}
	e.persistTask(ctx, task)
	return *task, nil
}

// UpdateTaskStatus moves a task to status
func (e *Engine) UpdateTaskStatus(ctx context.Context, id int, status models.TaskStatus) (models.Task, error) {
	return e.UpdateTask(ctx, id, TaskUpdate{Status: &status})
}

// ReassignCook gives the task to cook; nil unassigns it
func (e *Engine) ReassignCook(ctx context.Context, id int, cook *models.Cook) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, task := e.findTask(id)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}
	task.AssignCook(cook)
	e.persistTask(ctx, task)
	return *task, nil
}

// DeleteTask removes the task, which frees its minutes for later capacity
// queries.
func (e *Engine) DeleteTask(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, task := e.findTask(id)
	if task == nil {
		return ErrTaskNotFound
	}
	e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
	e.forgetTask(ctx, id)
	return nil
}
