package handlers

import (
	"net/http"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CreateShiftRequest represents the request payload for creating a shift
type CreateShiftRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Location  string `json:"location"`
	Type      string `json:"type"`
}

// UpdateShiftTimesRequest moves the start and end of a shift
type UpdateShiftTimesRequest struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// SetShiftEditableRequest locks or unlocks a shift
type SetShiftEditableRequest struct {
	Editable *bool `json:"editable" binding:"required"`
}

// GetShifts handles GET /api/shifts
func (h *Handler) GetShifts(c *gin.Context) {
	shifts := h.Engine.Shifts()
	c.JSON(http.StatusOK, gin.H{
		"shifts": shifts,
		"count":  len(shifts),
	})
}

// GetShiftByID handles GET /api/shifts/:id
func (h *Handler) GetShiftByID(c *gin.Context) {
	shift, ok := h.shiftParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shift)
}

// CreateShift handles POST /api/shifts
func (h *Handler) CreateShift(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.Engine.CreateShift(c.Request.Context(), allocation.ShiftInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Type:      req.Type,
	})
	if err != nil {
		engineError(c, err)
		return
	}

	h.publishShift(realtime.ShiftCreated, shift.ID)
	c.JSON(http.StatusCreated, shift)
}

// UpdateShiftTimes handles PUT /api/shifts/:id/times
// A locked shift is returned unchanged with "updated": false.
func (h *Handler) UpdateShiftTimes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateShiftTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, updated, err := h.Engine.UpdateShiftTimes(c.Request.Context(), id, req.StartTime, req.EndTime)
	if err != nil {
		engineError(c, err)
		return
	}
	if updated {
		h.publishShift(realtime.ShiftUpdated, shift.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"shift":   shift,
		"updated": updated,
	})
}

// SetShiftEditable handles PATCH /api/shifts/:id/editable
func (h *Handler) SetShiftEditable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req SetShiftEditableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.Engine.SetShiftEditable(c.Request.Context(), id, *req.Editable)
	if err != nil {
		engineError(c, err)
		return
	}
	h.publishShift(realtime.ShiftUpdated, shift.ID)
	c.JSON(http.StatusOK, shift)
}

// DeleteShift handles DELETE /api/shifts/:id
func (h *Handler) DeleteShift(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Engine.DeleteShift(c.Request.Context(), id); err != nil {
		engineError(c, err)
		return
	}
	h.publishShift(realtime.ShiftDeleted, id)
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted successfully"})
}

// GetShiftCapacity handles GET /api/shifts/:id/capacity?eventId=
func (h *Handler) GetShiftCapacity(c *gin.Context) {
	shift, ok := h.shiftParam(c)
	if !ok {
		return
	}
	eventID, ok := queryInt(c, "eventId")
	if !ok {
		return
	}
	event, ok := h.event(c, eventID)
	if !ok {
		return
	}

	capacity, err := h.Engine.Capacity(shift, event)
	if err != nil {
		engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, capacity)
}

// GetAvailableCooks handles GET /api/shifts/:id/available-cooks?minutes=&eventId=
// Without minutes it lists the cooks with any time left in the shift.
func (h *Handler) GetAvailableCooks(c *gin.Context) {
	shift, ok := h.shiftParam(c)
	if !ok {
		return
	}
	minutes, ok := queryInt(c, "minutes")
	if !ok {
		return
	}
	eventID, ok := queryInt(c, "eventId")
	if !ok {
		return
	}
	event, ok := h.event(c, eventID)
	if !ok {
		return
	}

	var cooks []models.Cook
	if minutes == nil {
		cooks = h.Engine.AvailableCooksGlobally(c.Request.Context(), shift)
	} else {
		cooks = h.Engine.AvailableCooksForTask(c.Request.Context(), shift, *minutes, event)
	}
	c.JSON(http.StatusOK, gin.H{
		"cooks":     cooks,
		"count":     len(cooks),
		"saturated": h.Engine.IsShiftSaturated(shift),
	})
}

// GetShiftTasks handles GET /api/shifts/:id/tasks?status=
func (h *Handler) GetShiftTasks(c *gin.Context) {
	shift, ok := h.shiftParam(c)
	if !ok {
		return
	}
	tasks := allocation.FilterByStatus(h.Engine.TasksForShift(shift), c.Query("status"))
	tasks = allocation.OrderByImportance(tasks)
	c.JSON(http.StatusOK, gin.H{
		"shift":   shift,
		"tasks":   tasks,
		"count":   len(tasks),
		"summary": allocation.Summarize(tasks),
	})
}
