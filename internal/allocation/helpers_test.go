package allocation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"kitchen-allocation-api/internal/models"

	"github.com/stretchr/testify/require"
)

// memStore records what the engine persists
type memStore struct {
	mu      sync.Mutex
	shifts  []models.Shift
	tasks   []models.Task
	saved   map[int]models.Task
	deleted []int
	failAll bool
}

func newMemStore() *memStore {
	return &memStore{saved: map[int]models.Task{}}
}

func (s *memStore) LoadShifts(ctx context.Context) ([]models.Shift, error) { return s.shifts, nil }
func (s *memStore) LoadTasks(ctx context.Context) ([]models.Task, error)   { return s.tasks, nil }

func (s *memStore) SaveShift(ctx context.Context, shift *models.Shift) error {
	if s.failAll {
		return errors.New("disk full")
	}
	return nil
}

func (s *memStore) DeleteShift(ctx context.Context, id int) error {
	if s.failAll {
		return errors.New("disk full")
	}
	return nil
}

func (s *memStore) SaveTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("disk full")
	}
	s.saved[task.ID] = *task
	return nil
}

func (s *memStore) DeleteTask(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("disk full")
	}
	s.deleted = append(s.deleted, id)
	delete(s.saved, id)
	return nil
}

type staticCooks struct {
	cooks []models.Cook
	err   error
}

func (r staticCooks) AllCooks(ctx context.Context) ([]models.Cook, error) {
	return r.cooks, r.err
}

type staticEvents []models.Event

func (r staticEvents) AllEvents(ctx context.Context) ([]models.Event, error) { return r, nil }

type staticRecipes map[int]models.Recipe

func (r staticRecipes) FindRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	rec, ok := r[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rec, nil
}

var (
	cookX = models.Cook{ID: 1, FirstName: "Xavier", LastName: "Rossi"}
	cookY = models.Cook{ID: 2, FirstName: "Yara", LastName: "Bianchi"}

	eventE1 = &models.Event{ID: 1, Name: "Wedding Conti"}
	eventE2 = &models.Event{ID: 2, Name: "Gala Dinner"}

	tiramisu = &models.Recipe{ID: 10, Name: "Tiramisu"}
	risotto  = &models.Recipe{ID: 11, Name: "Risotto"}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, cooks ...models.Cook) *Engine {
	t.Helper()
	e, err := New(context.Background(), nil, Options{
		Cooks:  staticCooks{cooks: cooks},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	return e
}

func mustShift(t *testing.T, e *Engine, date, start, end string) *models.Shift {
	t.Helper()
	s, err := e.CreateShift(context.Background(), ShiftInput{Date: date, StartTime: start, EndTime: end, Location: "Main kitchen", Type: "prep"})
	require.NoError(t, err)
	return &s
}

func mustAssign(t *testing.T, e *Engine, req AssignRequest) models.Task {
	t.Helper()
	a, err := e.Assign(context.Background(), req)
	require.NoError(t, err)
	return a.Task
}

func cookIDs(cooks []models.Cook) []int {
	ids := make([]int, 0, len(cooks))
	for _, c := range cooks {
		ids = append(ids, c.ID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
