package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/auth"
	"kitchen-allocation-api/internal/config"
	"kitchen-allocation-api/internal/middleware"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/realtime"
	"kitchen-allocation-api/internal/registry"
	"kitchen-allocation-api/internal/store"
	"kitchen-allocation-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "mise-en-place"

type testEnv struct {
	router  *gin.Engine
	handler *Handler
	hub     *recordingClient

	chefToken   string
	xavierToken string
	yaraToken   string
}

// staff ids: chef 1, xavier 2, yara 3; recipes: 1 tiramisu, 2 risotto;
// events: 1 wedding, 2 gala
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users := []models.User{
		{Username: "carla", FirstName: "Carla", LastName: "Neri", Role: models.RoleChef, Password: string(hash), Active: true},
		{Username: "xavier", FirstName: "Xavier", LastName: "Rossi", Role: models.RoleCook, Password: string(hash), Active: true},
		{Username: "yara", FirstName: "Yara", LastName: "Bianchi", Role: models.RoleCook, Password: string(hash), Active: true},
	}
	require.NoError(t, db.Create(&users).Error)
	require.NoError(t, db.Create(&[]models.Recipe{{Name: "Tiramisu"}, {Name: "Risotto"}}).Error)
	require.NoError(t, db.Create(&[]models.Event{{Name: "Wedding Conti"}, {Name: "Gala Dinner"}}).Error)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := registry.NewCatalog(db)
	engine, err := allocation.New(context.Background(), store.NewGormStore(db), allocation.Options{Cooks: catalog, Logger: logger})
	require.NoError(t, err)

	issuer := auth.NewIssuer(config.Default().Auth)
	hub := realtime.NewHub()
	listener := &recordingClient{}
	hub.Subscribe(realtime.TopicKitchen, listener)

	h := New(engine, catalog, issuer, hub, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", h.Login)

	protected := api.Group("", middleware.JWTAuthMiddleware(issuer))
	protected.GET("/shifts", h.GetShifts)
	protected.GET("/shifts/:id", h.GetShiftByID)
	protected.GET("/shifts/:id/capacity", h.GetShiftCapacity)
	protected.GET("/shifts/:id/available-cooks", h.GetAvailableCooks)
	protected.GET("/shifts/:id/tasks", h.GetShiftTasks)
	protected.GET("/tasks", h.GetTasks)
	protected.GET("/tasks/:id", h.GetTaskByID)
	protected.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
	protected.GET("/cooks", h.GetCooks)
	protected.GET("/cooks/workload", h.GetCookWorkloads)

	chef := protected.Group("", middleware.RequireRole(models.RoleChef))
	chef.POST("/shifts", h.CreateShift)
	chef.PUT("/shifts/:id/times", h.UpdateShiftTimes)
	chef.PATCH("/shifts/:id/editable", h.SetShiftEditable)
	chef.DELETE("/shifts/:id", h.DeleteShift)
	chef.POST("/tasks", h.CreateTask)
	chef.POST("/tasks/plan", h.PlanTask)
	chef.POST("/tasks/resolve", h.ResolveTasks)
	chef.PUT("/tasks/:id", h.UpdateTask)
	chef.PATCH("/tasks/:id/cook", h.ReassignTask)
	chef.DELETE("/tasks/:id", h.DeleteTask)

	env := &testEnv{router: r, handler: h, hub: listener}
	env.chefToken = tokenFor(t, issuer, users[0])
	env.xavierToken = tokenFor(t, issuer, users[1])
	env.yaraToken = tokenFor(t, issuer, users[2])
	return env
}

func tokenFor(t *testing.T, issuer *auth.Issuer, user models.User) string {
	t.Helper()
	token, err := issuer.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// createShift creates a 09:00-13:00 shift (240 minutes) as the chef
func (e *testEnv) createShift(t *testing.T) models.Shift {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/shifts", e.chefToken, map[string]any{
		"date": "2025-05-10", "startTime": "09:00", "endTime": "13:00", "location": "Main kitchen",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Shift](t, w)
}

func (e *testEnv) createTask(t *testing.T, body map[string]any) allocation.Assignment {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/tasks", e.chefToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[allocation.Assignment](t, w)
}

type recordingClient struct {
	mu       sync.Mutex
	messages []realtime.Message
}

func (c *recordingClient) Send(payload []byte) bool {
	var m realtime.Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return false
	}
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	return true
}

func (c *recordingClient) Close() {}

func (c *recordingClient) types() []realtime.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]realtime.MessageType, 0, len(c.messages))
	for _, m := range c.messages {
		out = append(out, m.Type)
	}
	return out
}
