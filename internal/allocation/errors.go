package allocation

import (
	"errors"

	"kitchen-allocation-api/internal/models"
)

// Sentinel errors returned by the mutating operations. A refused mutation
// leaves the engine unchanged.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftInUse         = errors.New("shift still has tasks assigned")
	ErrRecipeRequired     = errors.New("a recipe is required")
	ErrInvalidDuration    = errors.New("duration must be zero or more minutes")
	ErrInvalidQuantity    = errors.New("quantity must be zero or more")
	ErrCapacityExceeded   = errors.New("cook has not enough time left in this shift")
	ErrOpenTasksExist     = errors.New("recipe already has open tasks for this event")
	ErrInvalidShiftWindow = models.ErrInvalidShiftWindow
	ErrInvalidImportance  = models.ErrInvalidImportance
	ErrInvalidStatus      = models.ErrInvalidStatus
)
