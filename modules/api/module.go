package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app            *fiber.App
	port           int
	authContainer  mono.ServiceContainer
	authAdapter    auth.AuthPort
	tasksContainer mono.ServiceContainer
	tasksAdapter   tasks.TasksPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := 3000
	if v := os.Getenv("API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		} else {
			log.Printf("[api] Invalid API_PORT %q, using default %d", v, port)
		}
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "tasks"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "tasks":
		m.tasksContainer = container
		m.tasksAdapter = tasks.NewTasksAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasksContainer == nil {
		return fmt.Errorf("tasks dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(fmt.Sprintf(":%d", m.port)); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.tasksAdapter)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Backend is running",
		})
	})

	m.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Task Tracker API",
		})
	})

	api := m.app.Group("/api")

	// Public auth routes; registered before the owner-scoped group so the
	// static "auth" segment wins over the :userID parameter.
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signin", handlers.SignIn)
	authRoutes.Post("/signup", handlers.SignUp)

	// Owner-scoped task routes (require authentication)
	owner := api.Group("/:userID", AuthMiddleware(m.authAdapter))
	owner.Get("/tasks", handlers.ListTasks)
	owner.Post("/tasks", handlers.CreateTask)
	owner.Get("/tasks/:id", handlers.GetTask)
	owner.Put("/tasks/:id", handlers.UpdateTask)
	owner.Delete("/tasks/:id", handlers.DeleteTask)
	owner.Patch("/tasks/:id/complete", handlers.ToggleTask)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
