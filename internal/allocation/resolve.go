package allocation

import (
	"context"

	"kitchen-allocation-api/internal/models"
)

// ResolveReport counts what a resolution pass could not link
type ResolveReport struct {
	Tasks              int `json:"tasks"`
	UnresolvedRecipes  int `json:"unresolvedRecipes"`
	UnresolvedCooks    int `json:"unresolvedCooks"`
	UnresolvedEvents   int `json:"unresolvedEvents"`
	UnresolvedShifts   int `json:"unresolvedShifts"`
	AmbiguousShiftKeys int `json:"ambiguousShiftKeys"`
}

// ResolveReferences links every task's recipe, cook and event ids to live
// objects and refreshes the shift label from the shift the task points at.
//
// Tasks stored with only a shift label (ShiftID 0) adopt the id of the shift
// with that label, but only when exactly one shift carries it.
//
// A missing collaborator or an id that does not resolve leaves the reference
// empty without failing the pass. Running it again gives the same result.
func (e *Engine) ResolveReferences(ctx context.Context, recipes RecipeCatalog, events EventRegistry, cooks CookRegistry) ResolveReport {
	eventsByID := map[int]models.Event{}
	if events != nil {
		list, err := events.AllEvents(ctx)
		if err != nil {
			e.log.Warn("event registry unavailable during resolution", "error", err)
		}
		for _, ev := range list {
			eventsByID[ev.ID] = ev
		}
	}
	cooksByID := map[int]models.Cook{}
	if cooks != nil {
		list, err := cooks.AllCooks(ctx)
		if err != nil {
			e.log.Warn("cook registry unavailable during resolution", "error", err)
		}
		for _, c := range list {
			cooksByID[c.ID] = c
		}
	}
	recipesByID := map[int]*models.Recipe{}
	lookupRecipe := func(id int) *models.Recipe {
		if r, ok := recipesByID[id]; ok {
			return r
		}
		var r *models.Recipe
		if recipes != nil {
			found, err := recipes.FindRecipe(ctx, id)
			if err == nil {
				r = found
			}
		}
		recipesByID[id] = r
		return r
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	shiftsByLabel := map[string][]*models.Shift{}
	for _, s := range e.shifts {
		shiftsByLabel[s.Label()] = append(shiftsByLabel[s.Label()], s)
	}

	report := ResolveReport{Tasks: len(e.tasks)}
	for _, t := range e.tasks {
		changed := false

		if t.RecipeID != nil {
			if r := lookupRecipe(*t.RecipeID); r != nil {
				t.AssignRecipe(r)
			} else {
				report.UnresolvedRecipes++
			}
		}
		if t.CookID != nil {
			if c, ok := cooksByID[*t.CookID]; ok {
				t.AssignCook(&c)
			} else {
				report.UnresolvedCooks++
			}
		}
		if t.EventID != nil {
			if ev, ok := eventsByID[*t.EventID]; ok {
				t.AssignEvent(&ev)
			} else {
				report.UnresolvedEvents++
			}
		}

		if t.ShiftID == 0 && t.ShiftLabel != "" {
			switch matches := shiftsByLabel[t.ShiftLabel]; len(matches) {
			case 1:
				t.ShiftID = matches[0].ID
				changed = true
			case 0:
				report.UnresolvedShifts++
			default:
				report.AmbiguousShiftKeys++
			}
		}
		if t.ShiftID != 0 {
			if _, s := e.findShift(t.ShiftID); s != nil {
				if t.ShiftLabel != s.Label() {
					t.ShiftLabel = s.Label()
					changed = true
				}
			} else {
				report.UnresolvedShifts++
			}
		}

		if changed {
			e.persistTask(ctx, t)
		}
	}

	e.log.Info("task references resolved",
		"tasks", report.Tasks,
		"unresolved_recipes", report.UnresolvedRecipes,
		"unresolved_cooks", report.UnresolvedCooks,
		"unresolved_events", report.UnresolvedEvents,
		"unresolved_shifts", report.UnresolvedShifts,
		"ambiguous_shift_keys", report.AmbiguousShiftKeys,
	)
	return report
}
