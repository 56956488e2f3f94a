package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/auth"
	"kitchen-allocation-api/internal/middleware"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/realtime"
	"kitchen-allocation-api/internal/registry"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API on top of the allocation engine
type Handler struct {
	Engine  *allocation.Engine
	Catalog *registry.Catalog
	Issuer  *auth.Issuer
	Hub     *realtime.Hub
	Log     *slog.Logger
}

func New(engine *allocation.Engine, catalog *registry.Catalog, issuer *auth.Issuer, hub *realtime.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Engine:  engine,
		Catalog: catalog,
		Issuer:  issuer,
		Hub:     hub,
		Log:     logger.With("component", "http"),
	}
}

// engineError writes the response for an error returned by the engine.
// Anything that is not a lookup or conflict failure is a rejected input.
func engineError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, allocation.ErrTaskNotFound), errors.Is(err, allocation.ErrShiftNotFound):
		status = http.StatusNotFound
	case errors.Is(err, allocation.ErrShiftInUse), errors.Is(err, allocation.ErrCapacityExceeded),
		errors.Is(err, allocation.ErrOpenTasksExist):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// lookupError writes the response for a failed catalog lookup
func (h *Handler) lookupError(c *gin.Context, what string, err error) {
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	h.Log.Error("catalog lookup failed", "what", what, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + what})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; nil when absent
func queryInt(c *gin.Context, key string) (*int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return nil, false
	}
	return &v, true
}

// shiftParam loads the shift named by the :id path parameter
func (h *Handler) shiftParam(c *gin.Context) (*models.Shift, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	shift, found := h.Engine.Shift(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return nil, false
	}
	return &shift, true
}

// event resolves an optional event id; nil id means no event
func (h *Handler) event(c *gin.Context, id *int) (*models.Event, bool) {
	if id == nil {
		return nil, true
	}
	event, err := h.Catalog.FindEvent(c.Request.Context(), *id)
	if err != nil {
		h.lookupError(c, "event", err)
		return nil, false
	}
	return event, true
}

// cook resolves an optional cook id; nil id means no cook
func (h *Handler) cook(c *gin.Context, id *int) (*models.Cook, bool) {
	if id == nil {
		return nil, true
	}
	cook, err := h.Catalog.FindCook(c.Request.Context(), *id)
	if err != nil {
		h.lookupError(c, "cook", err)
		return nil, false
	}
	return cook, true
}

func (h *Handler) recipe(c *gin.Context, id int) (*models.Recipe, bool) {
	recipe, err := h.Catalog.FindRecipe(c.Request.Context(), id)
	if err != nil {
		h.lookupError(c, "recipe", err)
		return nil, false
	}
	return recipe, true
}

func (h *Handler) publishTask(kind realtime.MessageType, task models.Task) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(realtime.Message{Type: kind, TaskID: task.ID, ShiftID: task.ShiftID, EventID: task.EventID})
}

func (h *Handler) publishShift(kind realtime.MessageType, shiftID int) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(realtime.Message{Type: kind, ShiftID: shiftID})
}

func currentRole(c *gin.Context) models.Role {
	role, _ := c.Get(middleware.RoleKey)
	r, _ := role.(models.Role)
	return r
}
