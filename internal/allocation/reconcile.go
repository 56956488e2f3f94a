package allocation

import (
	"math"

	"kitchen-allocation-api/internal/models"
)

// Plan is what the engine knows about a recipe within an event before a new
// task is created for it. Callers use it to pick between a reduced task, a
// full task, or editing the existing ones.
type Plan struct {
	Existing          []models.Task `json:"existingTasks"`
	RequestedQuantity float64       `json:"requestedQuantity"`
	PlannedQuantity   float64       `json:"plannedQuantity"`
	CompletedQuantity float64       `json:"completedQuantity"`
	NetNeeded         float64       `json:"netNeeded"`
	Shortfall         float64       `json:"shortfall"`
}

// HasExisting reports whether open tasks already cover the recipe
func (p Plan) HasExisting() bool {
	return len(p.Existing) > 0
}

// ReconcileQuantity returns how much still has to be cooked once the
// completed quantity is taken off. Never negative.
func ReconcileQuantity(requested, completed float64) float64 {
	return math.Max(0, requested-completed)
}

// ExistingTasksForRecipe returns the tasks of the event for the recipe that
// are not completed yet. Events and recipes are matched by name when the
// task's references are resolved, by id otherwise.
func (e *Engine) ExistingTasksForRecipe(event *models.Event, recipe *models.Recipe) []models.Task {
	if event == nil || recipe == nil {
		return []models.Task{}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshot(e.openTasksFor(event, recipe))
}

// TotalPlannedQuantity sums the quantity of ExistingTasksForRecipe
func (e *Engine) TotalPlannedQuantity(event *models.Event, recipe *models.Recipe) float64 {
	if event == nil || recipe == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sumQuantity(e.openTasksFor(event, recipe))
}

// TotalCompletedQuantity sums the quantity of the completed tasks of the
// event for the recipe.
func (e *Engine) TotalCompletedQuantity(event *models.Event, recipe *models.Recipe) float64 {
	if event == nil || recipe == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.completedQuantity(event, recipe)
}

// PlanAssignment gathers the existing tasks and the quantities needed to
// decide how a request for requested units of recipe should be handled.
func (e *Engine) PlanAssignment(event *models.Event, recipe *models.Recipe, requested float64) Plan {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.plan(event, recipe, requested)
}

// plan must be called with e.mu held
func (e *Engine) plan(event *models.Event, recipe *models.Recipe, requested float64) Plan {
	p := Plan{RequestedQuantity: requested, Existing: []models.Task{}}
	if event != nil && recipe != nil {
		open := e.openTasksFor(event, recipe)
		p.Existing = snapshot(open)
		p.PlannedQuantity = sumQuantity(open)
		p.CompletedQuantity = e.completedQuantity(event, recipe)
	}
	p.NetNeeded = ReconcileQuantity(requested, p.CompletedQuantity)
	p.Shortfall = math.Max(0, p.NetNeeded-p.PlannedQuantity)
	return p
}

func (e *Engine) openTasksFor(event *models.Event, recipe *models.Recipe) []*models.Task {
	var out []*models.Task
	for _, t := range e.tasks {
		if t.IsCompleted() {
			continue
		}
		if sameEvent(t, event) && sameRecipe(t, recipe) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) completedQuantity(event *models.Event, recipe *models.Recipe) float64 {
	total := 0.0
	for _, t := range e.tasks {
		if t.IsCompleted() && sameEvent(t, event) && sameRecipe(t, recipe) {
			total += t.Quantity
		}
	}
	return total
}

func sumQuantity(tasks []*models.Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.Quantity
	}
	return total
}

func sameEvent(t *models.Task, event *models.Event) bool {
	if t.Event != nil {
		return t.Event.Name == event.Name
	}
	return t.EventID != nil && *t.EventID == event.ID
}

func sameRecipe(t *models.Task, recipe *models.Recipe) bool {
	if t.Recipe != nil {
		return t.Recipe.Name == recipe.Name
	}
	return t.RecipeID != nil && *t.RecipeID == recipe.ID
}
