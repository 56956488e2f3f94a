package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/realtime"

	"github.com/stretchr/testify/require"
)

func TestCreateTask_Success(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)

	a := env.createTask(t, map[string]any{
		"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "eventId": 1,
		"durationMinutes": 90, "quantity": 50, "importance": 3,
	})
	require.Equal(t, 50.0, a.Task.Quantity)
	require.Equal(t, 90, a.Task.DurationMinutes)
	require.Equal(t, models.StatusToStart, a.Task.Status)
	require.Equal(t, models.ImportanceMedium, a.Task.Importance)
	require.Equal(t, "2025-05-10 09:00-13:00", a.Task.ShiftLabel)
	require.Equal(t, "Tiramisu", a.Task.Recipe.Name)
	require.Equal(t, "Xavier Rossi", a.Task.Cook.FullName())
	require.False(t, a.Plan.HasExisting())

	require.Equal(t, []realtime.MessageType{realtime.ShiftCreated, realtime.TaskCreated}, env.hub.types())
}

func TestCreateTask_ExistingTasksNeedAMode(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "eventId": 1, "durationMinutes": 90, "quantity": 50})

	second := map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 3, "eventId": 1, "durationMinutes": 60, "quantity": 30}
	w := env.do(t, http.MethodPost, "/api/tasks", env.chefToken, second)
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decode[struct {
		Error string          `json:"error"`
		Plan  allocation.Plan `json:"plan"`
	}](t, w)
	require.Len(t, conflict.Plan.Existing, 1)
	require.Equal(t, 50.0, conflict.Plan.PlannedQuantity)
	require.Equal(t, 0.0, conflict.Plan.Shortfall)

	second["mode"] = "reduced"
	marker := env.createTask(t, second)
	require.Equal(t, 0.0, marker.Task.Quantity)
	require.Equal(t, 0, marker.Task.DurationMinutes)

	second["mode"] = "full"
	second["quantity"] = 80
	full := env.createTask(t, second)
	require.Equal(t, 80.0, full.Task.Quantity)

	second["mode"] = "strict"
	w = env.do(t, http.MethodPost, "/api/tasks", env.chefToken, second)
	require.Equal(t, http.StatusConflict, w.Code)

	second["mode"] = "sideways"
	w = env.do(t, http.MethodPost, "/api/tasks", env.chefToken, second)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_ReducedAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	first := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "eventId": 1, "durationMinutes": 90, "quantity": 50})

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", first.Task.ID), env.xavierToken, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks/plan", env.chefToken, map[string]any{"recipeId": 1, "eventId": 1, "quantity": 80})
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[allocation.Plan](t, w)
	require.Equal(t, 50.0, plan.CompletedQuantity)
	require.Equal(t, 30.0, plan.NetNeeded)

	a := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 3, "eventId": 1, "durationMinutes": 40, "quantity": 80, "mode": "reduced"})
	require.Equal(t, 30.0, a.Task.Quantity)
}

func TestCreateTask_Rejections(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 2, "cookId": 2, "durationMinutes": 200, "quantity": 1})

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing recipe", map[string]any{"shiftId": shift.ID, "durationMinutes": 10}, http.StatusBadRequest},
		{"unknown recipe", map[string]any{"shiftId": shift.ID, "recipeId": 99, "durationMinutes": 10}, http.StatusNotFound},
		{"unknown event", map[string]any{"shiftId": shift.ID, "recipeId": 1, "eventId": 99, "durationMinutes": 10}, http.StatusNotFound},
		{"chef is not a cook", map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 1, "durationMinutes": 10}, http.StatusNotFound},
		{"unknown shift", map[string]any{"shiftId": 99, "recipeId": 1, "durationMinutes": 10}, http.StatusNotFound},
		{"negative duration", map[string]any{"shiftId": shift.ID, "recipeId": 1, "durationMinutes": -10}, http.StatusBadRequest},
		{"importance off scale", map[string]any{"shiftId": shift.ID, "recipeId": 1, "durationMinutes": 10, "importance": 4}, http.StatusBadRequest},
		{"explicit zero importance", map[string]any{"shiftId": shift.ID, "recipeId": 1, "durationMinutes": 10, "importance": 0}, http.StatusBadRequest},
		{"over capacity", map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "durationMinutes": 60, "quantity": 1, "enforceCapacity": true}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/tasks", env.chefToken, tt.body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := env.do(t, http.MethodPost, "/api/tasks", env.yaraToken, map[string]any{"shiftId": shift.ID, "recipeId": 1, "durationMinutes": 10})
	require.Equal(t, http.StatusForbidden, w.Code)

	require.Len(t, env.handler.Engine.Tasks(), 1)
}

func TestUpdateTaskStatus_CooksOnlyMoveTheirOwnTasks(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	a := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "durationMinutes": 30, "quantity": 5})
	path := fmt.Sprintf("/api/tasks/%d/status", a.Task.ID)

	w := env.do(t, http.MethodPatch, path, env.yaraToken, map[string]string{"status": "In progress"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, path, env.xavierToken, map[string]string{"status": "in progress"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.StatusInProgress, decode[models.Task](t, w).Status)

	w = env.do(t, http.MethodPatch, path, env.chefToken, map[string]string{"status": "Blocked"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, path, env.chefToken, map[string]string{"status": "Paused"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/tasks/99/status", env.chefToken, map[string]string{"status": "Blocked"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndReassignTask(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	a := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "durationMinutes": 30, "quantity": 5})
	path := fmt.Sprintf("/api/tasks/%d", a.Task.ID)

	w := env.do(t, http.MethodPut, path, env.chefToken, map[string]any{"durationMinutes": 45, "importance": 5, "status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	task := decode[models.Task](t, w)
	require.Equal(t, 45, task.DurationMinutes)
	require.Equal(t, models.ImportanceHigh, task.Importance)
	require.Equal(t, models.StatusCompleted, task.Status)

	w = env.do(t, http.MethodPut, path, env.chefToken, map[string]any{"quantity": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, path+"/cook", env.chefToken, map[string]any{"cookId": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3, *decode[models.Task](t, w).CookID)

	w = env.do(t, http.MethodPatch, path+"/cook", env.chefToken, map[string]any{"cookId": nil})
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode[models.Task](t, w).CookID)

	w = env.do(t, http.MethodGet, path, env.yaraToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 5.0, decode[models.Task](t, w).Quantity)

	w = env.do(t, http.MethodGet, "/api/tasks/abc", env.yaraToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTasks_FilterOrderAndSummary(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	low := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "eventId": 1, "durationMinutes": 20, "quantity": 1, "importance": 1})
	high := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 2, "eventId": 1, "durationMinutes": 20, "quantity": 1, "importance": 5})
	env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 2, "eventId": 2, "durationMinutes": 20, "quantity": 1})

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", low.Task.ID), env.chefToken, map[string]string{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)

	type listResponse struct {
		Tasks   []models.Task          `json:"tasks"`
		Count   int                    `json:"count"`
		Summary allocation.TaskSummary `json:"summary"`
	}

	w = env.do(t, http.MethodGet, "/api/tasks?eventId=1", env.chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[listResponse](t, w)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, high.Task.ID, resp.Tasks[0].ID)
	require.Equal(t, allocation.TaskSummary{Total: 2, Completed: 1, Remaining: 1}, resp.Summary)

	w = env.do(t, http.MethodGet, "/api/tasks?eventId=1&order=created", env.chefToken, nil)
	require.Equal(t, low.Task.ID, decode[listResponse](t, w).Tasks[0].ID)

	w = env.do(t, http.MethodGet, "/api/tasks?status=completed", env.chefToken, nil)
	require.Equal(t, 1, decode[listResponse](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/tasks?status=Tutti", env.chefToken, nil)
	require.Equal(t, 3, decode[listResponse](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/tasks?eventId=9", env.chefToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTasks_PagesAndSort(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	var ids []int
	for _, event := range []int{1, 2} {
		for _, recipe := range []int{1, 2} {
			a := env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": recipe, "eventId": event, "durationMinutes": 10, "quantity": 1})
			ids = append(ids, a.Task.ID)
		}
	}

	type pageResponse struct {
		Tasks   []models.Task          `json:"tasks"`
		Count   int                    `json:"count"`
		Total   int                    `json:"total"`
		Page    int                    `json:"page"`
		Limit   int                    `json:"limit"`
		Sort    string                 `json:"sort"`
		Summary allocation.TaskSummary `json:"summary"`
	}

	w := env.do(t, http.MethodGet, "/api/tasks?order=created&limit=3&page=2", env.chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[pageResponse](t, w)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, 4, resp.Total)
	require.Equal(t, 2, resp.Page)
	require.Equal(t, 3, resp.Limit)
	require.Equal(t, ids[3], resp.Tasks[0].ID)
	require.Equal(t, 4, resp.Summary.Total)

	w = env.do(t, http.MethodGet, "/api/tasks?order=created&sort=desc&limit=2", env.chefToken, nil)
	resp = decode[pageResponse](t, w)
	require.Equal(t, "desc", resp.Sort)
	require.Equal(t, []int{ids[3], ids[2]}, []int{resp.Tasks[0].ID, resp.Tasks[1].ID})

	w = env.do(t, http.MethodGet, "/api/tasks?page=9&limit=500", env.chefToken, nil)
	resp = decode[pageResponse](t, w)
	require.Equal(t, 0, resp.Count)
	require.Empty(t, resp.Tasks)
	require.Equal(t, 100, resp.Limit)
}

func TestResolveTasks(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t)
	env.createTask(t, map[string]any{"shiftId": shift.ID, "recipeId": 1, "cookId": 2, "eventId": 1, "durationMinutes": 20, "quantity": 1})

	w := env.do(t, http.MethodPost, "/api/tasks/resolve", env.chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, allocation.ResolveReport{Tasks: 1}, decode[allocation.ResolveReport](t, w))
}
