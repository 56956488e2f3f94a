package routes

import (
	"kitchen-allocation-api/internal/handlers"
	"kitchen-allocation-api/internal/middleware"
	"kitchen-allocation-api/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(h *handlers.Handler) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Kitchen Allocation API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
	}

	// Protected routes (authentication required); any member of staff can read
	// and move tasks along
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(h.Issuer))
	{
		protectedRoutes.GET("/shifts", h.GetShifts)
		protectedRoutes.GET("/shifts/:id", h.GetShiftByID)
		protectedRoutes.GET("/shifts/:id/capacity", h.GetShiftCapacity)
		protectedRoutes.GET("/shifts/:id/available-cooks", h.GetAvailableCooks)
		protectedRoutes.GET("/shifts/:id/tasks", h.GetShiftTasks)

		protectedRoutes.GET("/tasks", h.GetTasks)
		protectedRoutes.GET("/tasks/:id", h.GetTaskByID)
		protectedRoutes.PATCH("/tasks/:id/status", h.UpdateTaskStatus)

		protectedRoutes.GET("/cooks", h.GetCooks)
		protectedRoutes.GET("/cooks/workload", h.GetCookWorkloads)

		protectedRoutes.GET("/ws", h.WebSocketHandler)
	}

	// Planning routes are reserved to the chef
	chefRoutes := protectedRoutes.Group("")
	chefRoutes.Use(middleware.RequireRole(models.RoleChef))
	{
		chefRoutes.POST("/shifts", h.CreateShift)
		chefRoutes.PUT("/shifts/:id/times", h.UpdateShiftTimes)
		chefRoutes.PATCH("/shifts/:id/editable", h.SetShiftEditable)
		chefRoutes.DELETE("/shifts/:id", h.DeleteShift)

		chefRoutes.POST("/tasks", h.CreateTask)
		chefRoutes.POST("/tasks/plan", h.PlanTask)
		chefRoutes.POST("/tasks/resolve", h.ResolveTasks)
		chefRoutes.PUT("/tasks/:id", h.UpdateTask)
		chefRoutes.PATCH("/tasks/:id/cook", h.ReassignTask)
		chefRoutes.DELETE("/tasks/:id", h.DeleteTask)
	}

	return ginRouter
}
