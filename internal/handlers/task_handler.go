package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/middleware"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	ShiftID         int                `json:"shiftId" binding:"required"`
	RecipeID        int                `json:"recipeId" binding:"required"`
	CookID          *int               `json:"cookId"`
	EventID         *int               `json:"eventId"`
	DurationMinutes int                `json:"durationMinutes"`
	Quantity        float64            `json:"quantity"`
	Importance      *models.Importance `json:"importance"`
	// Mode is "full", "reduced" or "strict". When empty it is "strict": if the
	// recipe already has open tasks in the event, the request is refused with
	// 409 and the plan.
	Mode            string `json:"mode"`
	EnforceCapacity bool   `json:"enforceCapacity"`
}

// PlanTaskRequest asks how a new request for a recipe would be reconciled
type PlanTaskRequest struct {
	RecipeID int     `json:"recipeId" binding:"required"`
	EventID  *int    `json:"eventId"`
	Quantity float64 `json:"quantity"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	DurationMinutes *int               `json:"durationMinutes"`
	Quantity        *float64           `json:"quantity"`
	Importance      *models.Importance `json:"importance"`
	Status          *string            `json:"status"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReassignTaskRequest gives a task to another cook; a null cookId unassigns it
type ReassignTaskRequest struct {
	CookID *int `json:"cookId"`
}

// GetTasks handles GET /api/tasks?eventId=&status=&order=&sort=&page=&limit=
// Tasks are ordered by importance, most important first, unless order=created
// (oldest first). sort=asc|desc overrides the direction. The summary covers
// every matching task, not just the page.
func (h *Handler) GetTasks(c *gin.Context) {
	eventID, ok := queryInt(c, "eventId")
	if !ok {
		return
	}
	event, ok := h.event(c, eventID)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	tasks := allocation.FilterByStatus(h.Engine.TasksForEvent(event), c.Query("status"))
	order := strings.ToLower(c.DefaultQuery("order", "importance"))
	sortParam := "asc"
	if order != "created" {
		order = "importance"
		sortParam = "desc"
		tasks = allocation.OrderByImportance(tasks)
	}
	if s := strings.ToLower(c.Query("sort")); (s == "asc" || s == "desc") && s != sortParam {
		sortParam = s
		slices.Reverse(tasks)
	}

	total := len(tasks)
	offset := min((page-1)*limit, total)
	end := min(offset+limit, total)

	c.JSON(http.StatusOK, gin.H{
		"tasks":   tasks[offset:end],
		"count":   end - offset, // number of items in this page
		"total":   total,        // matching tasks across all pages
		"summary": allocation.Summarize(tasks),
		"order":   order,
		"sort":    sortParam,
		"page":    page,
		"limit":   limit,
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, found := h.Engine.Task(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PlanTask handles POST /api/tasks/plan
func (h *Handler) PlanTask(c *gin.Context) {
	var req PlanTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipe, ok := h.recipe(c, req.RecipeID)
	if !ok {
		return
	}
	event, ok := h.event(c, req.EventID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Engine.PlanAssignment(event, recipe, req.Quantity))
}

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, ok := h.recipe(c, req.RecipeID)
	if !ok {
		return
	}
	event, ok := h.event(c, req.EventID)
	if !ok {
		return
	}
	cook, ok := h.cook(c, req.CookID)
	if !ok {
		return
	}

	mode := allocation.AssignStrict
	if req.Mode != "" {
		var err error
		if mode, err = allocation.ParseAssignMode(req.Mode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	var importance models.Importance
	if req.Importance != nil {
		if !req.Importance.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidImportance.Error()})
			return
		}
		importance = *req.Importance
	}

	assignment, err := h.Engine.Assign(c.Request.Context(), allocation.AssignRequest{
		ShiftID:         req.ShiftID,
		Recipe:          recipe,
		Cook:            cook,
		Event:           event,
		DurationMinutes: req.DurationMinutes,
		Quantity:        req.Quantity,
		Importance:      importance,
		Mode:            mode,
		EnforceCapacity: req.EnforceCapacity,
	})
	if errors.Is(err, allocation.ErrOpenTasksExist) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Recipe already has open tasks for this event; choose mode \"full\" or \"reduced\", or edit the existing tasks",
			"plan":  assignment.Plan,
		})
		return
	}
	if err != nil {
		engineError(c, err)
		return
	}

	h.publishTask(realtime.TaskCreated, assignment.Task)
	c.JSON(http.StatusCreated, assignment)
}

// UpdateTask handles PUT /api/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := allocation.TaskUpdate{
		DurationMinutes: req.DurationMinutes,
		Quantity:        req.Quantity,
		Importance:      req.Importance,
	}
	if req.Status != nil {
		status, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		upd.Status = &status
	}

	task, err := h.Engine.UpdateTask(c.Request.Context(), id, upd)
	if err != nil {
		engineError(c, err)
		return
	}
	h.publishTask(realtime.TaskUpdated, task)
	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Cooks may only move their own tasks.
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseTaskStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if currentRole(c) == models.RoleCook {
		task, found := h.Engine.Task(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if !task.HasCook() || *task.CookID != c.GetInt(middleware.UserIDKey) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Task is assigned to someone else"})
			return
		}
	}

	task, err := h.Engine.UpdateTaskStatus(c.Request.Context(), id, status)
	if err != nil {
		engineError(c, err)
		return
	}
	h.publishTask(realtime.TaskUpdated, task)
	c.JSON(http.StatusOK, task)
}

// ReassignTask handles PATCH /api/tasks/:id/cook
func (h *Handler) ReassignTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ReassignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cook, ok := h.cook(c, req.CookID)
	if !ok {
		return
	}

	task, err := h.Engine.ReassignCook(c.Request.Context(), id, cook)
	if err != nil {
		engineError(c, err)
		return
	}
	h.publishTask(realtime.TaskUpdated, task)
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, found := h.Engine.Task(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err := h.Engine.DeleteTask(c.Request.Context(), id); err != nil {
		engineError(c, err)
		return
	}
	h.publishTask(realtime.TaskDeleted, task)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ResolveTasks handles POST /api/tasks/resolve
// It relinks every task to the catalog and reports what could not be linked.
func (h *Handler) ResolveTasks(c *gin.Context) {
	report := h.Engine.ResolveReferences(c.Request.Context(), h.Catalog, h.Catalog, h.Catalog)
	c.JSON(http.StatusOK, report)
}
