// Package allocation assigns kitchen tasks to cooks within shifts.
//
// The Engine owns the task and shift collections. Every query is a linear
// scan over those collections; every mutation runs under a single write lock
// so that "check, then create" sequences cannot interleave.
package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"kitchen-allocation-api/internal/models"
)

// DefaultSaturationThreshold is the share of a shift's duration above which
// the shift is flagged as saturated.
const DefaultSaturationThreshold = 0.8

// Store persists the engine's collections. Load* is called once at
// construction, the rest after every mutation.
type Store interface {
	LoadShifts(ctx context.Context) ([]models.Shift, error)
	LoadTasks(ctx context.Context) ([]models.Task, error)
	SaveShift(ctx context.Context, shift *models.Shift) error
	DeleteShift(ctx context.Context, id int) error
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id int) error
}

// RecipeCatalog looks recipes up by id
type RecipeCatalog interface {
	FindRecipe(ctx context.Context, id int) (*models.Recipe, error)
}

// CookRegistry lists the cooks tasks can be assigned to
type CookRegistry interface {
	AllCooks(ctx context.Context) ([]models.Cook, error)
}

// EventRegistry lists the known events
type EventRegistry interface {
	AllEvents(ctx context.Context) ([]models.Event, error)
}

// Options controls construction of an Engine.
type Options struct {
	// SaturationThreshold defaults to DefaultSaturationThreshold when zero.
	SaturationThreshold float64

	// Cooks is consulted by availability queries. When nil, or when it
	// fails, the cooks already seen on tasks are used instead.
	Cooks CookRegistry

	Logger *slog.Logger
}

// Engine is the task/shift allocation engine
type Engine struct {
	mu sync.RWMutex

	store      Store
	cooks      CookRegistry
	log        *slog.Logger
	saturation float64

	shifts []*models.Shift
	tasks  []*models.Task

	nextShiftID int
	nextTaskID  int
}

// New builds an engine and loads its collections from store. A nil store
// keeps everything in memory.
func New(ctx context.Context, store Store, opts Options) (*Engine, error) {
	threshold := opts.SaturationThreshold
	if threshold == 0 {
		threshold = DefaultSaturationThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("saturation threshold must be in (0,1], got %v", threshold)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		store:       store,
		cooks:       opts.Cooks,
		log:         logger.With("component", "allocation"),
		saturation:  threshold,
		nextShiftID: 1,
		nextTaskID:  1,
	}

	if store == nil {
		return e, nil
	}

	shifts, err := store.LoadShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	tasks, err := store.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	for i := range shifts {
		s := shifts[i]
		e.shifts = append(e.shifts, &s)
		if s.ID >= e.nextShiftID {
			e.nextShiftID = s.ID + 1
		}
	}
	for i := range tasks {
		t := tasks[i]
		if t.Status == "" {
			t.Status = models.StatusToStart
		} else if status, err := models.ParseTaskStatus(string(t.Status)); err == nil {
			t.Status = status
		}
		e.tasks = append(e.tasks, &t)
		if t.ID >= e.nextTaskID {
			e.nextTaskID = t.ID + 1
		}
	}

	e.log.Info("allocation engine loaded", "shifts", len(e.shifts), "tasks", len(e.tasks))
	return e, nil
}

// SaturationThreshold returns the configured saturation share
func (e *Engine) SaturationThreshold() float64 {
	return e.saturation
}

// persistTask saves a task. A failed save is logged and the in-memory state
// stays authoritative.
func (e *Engine) persistTask(ctx context.Context, t *models.Task) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveTask(ctx, t); err != nil {
		e.log.Error("failed to save task", "task_id", t.ID, "error", err)
	}
}

func (e *Engine) forgetTask(ctx context.Context, id int) {
	if e.store == nil {
		return
	}
	if err := e.store.DeleteTask(ctx, id); err != nil {
		e.log.Error("failed to delete task", "task_id", id, "error", err)
	}
}

func (e *Engine) persistShift(ctx context.Context, s *models.Shift) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveShift(ctx, s); err != nil {
		e.log.Error("failed to save shift", "shift_id", s.ID, "error", err)
	}
}

func (e *Engine) forgetShift(ctx context.Context, id int) {
	if e.store == nil {
		return
	}
	if err := e.store.DeleteShift(ctx, id); err != nil {
		e.log.Error("failed to delete shift", "shift_id", id, "error", err)
	}
}

func (e *Engine) findTask(id int) (int, *models.Task) {
	for i, t := range e.tasks {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (e *Engine) findShift(id int) (int, *models.Shift) {
	for i, s := range e.shifts {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

func snapshot(tasks []*models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *t)
	}
	return out
}
