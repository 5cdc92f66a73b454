package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/example/task-tracker/domain/identity"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// forbiddenMessage is the single detail used for every ownership failure,
// whether the mismatch is against the path or against a stored record. A
// forbidden response must not reveal whether the resource exists.
const forbiddenMessage = "Access denied: user ID mismatch"

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	tasks         tasks.TasksPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, tasksPort tasks.TasksPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		tasks:         tasksPort,
	}
}

// SignIn handles sign-in requests.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}

	authReq := auth.SignInRequest{Email: req.Email, Password: req.Password}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "signin",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// SignUp handles sign-up requests.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}

	authReq := auth.SignUpRequest{Email: req.Email, Password: req.Password, Name: req.Name}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "signup",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListTasks handles GET /api/:userID/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	_, pathOwner, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	status := c.Query("status")
	if !validStatus(status) {
		return validationError(c, fmt.Sprintf("Unrecognized status value %q", status))
	}

	sort := c.Query("sort")
	if !validSort(sort) {
		return validationError(c, fmt.Sprintf("Unrecognized sort value %q", sort))
	}

	list, err := h.tasks.List(c.UserContext(), pathOwner, status, sort)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

// CreateTask handles POST /api/:userID/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	_, pathOwner, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	// The body must declare the owner, and the stored owner always comes
	// from the (already verified) path; the declared owner may only
	// confirm it.
	if req.UserID == "" {
		return badRequest(c, "User ID is required")
	}
	if req.UserID != pathOwner {
		return badRequest(c, "User ID mismatch")
	}

	t, err := h.tasks.Create(c.UserContext(), pathOwner, req.Title, req.Description)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTask handles GET /api/:userID/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, _, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	t, err := h.fetchOwnedTask(c, claims)
	if err != nil {
		return h.mapOwnedFetchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(t)
}

// UpdateTask handles PUT /api/:userID/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, _, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.fetchOwnedTask(c, claims)
	if err != nil {
		return h.mapOwnedFetchError(c, err)
	}

	updated, err := h.tasks.Update(c.UserContext(), tasks.UpdateTaskRequest{
		ID:          t.ID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTask handles DELETE /api/:userID/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, _, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	t, err := h.fetchOwnedTask(c, claims)
	if err != nil {
		return h.mapOwnedFetchError(c, err)
	}

	if err := h.tasks.Delete(c.UserContext(), t.ID); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask handles PATCH /api/:userID/tasks/:id/complete.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	claims, _, err := h.requireOwner(c)
	if err != nil {
		return forbidden(c)
	}

	t, err := h.fetchOwnedTask(c, claims)
	if err != nil {
		return h.mapOwnedFetchError(c, err)
	}

	toggled, err := h.tasks.ToggleComplete(c.UserContext(), t.ID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toggled)
}

// requireOwner reads the caller's claims and checks them against the owner
// segment of the path. Every resource handler runs this first.
func (h *Handlers) requireOwner(c *fiber.Ctx) (*identity.Claims, string, error) {
	claims, ok := c.Locals(UserContextKey).(*identity.Claims)
	if !ok {
		return nil, "", ErrOwnerMismatch
	}

	pathOwner := c.Params("userID")
	if err := CheckPathOwner(pathOwner, claims.UserID); err != nil {
		return nil, "", err
	}

	return claims, pathOwner, nil
}

// fetchOwnedTask fetches the task named in the path and verifies the stored
// owner against the caller. Identifiers are global, so the record check is
// required even after the path check has passed.
func (h *Handlers) fetchOwnedTask(c *fiber.Ctx, claims *identity.Claims) (*tasks.TaskResponse, error) {
	t, err := h.tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}

	if err := CheckRecordOwner(t.UserID, claims.UserID); err != nil {
		return nil, err
	}

	return t, nil
}

// mapOwnedFetchError maps fetch-and-check failures: an ownership mismatch is
// forbidden, everything else goes through the task error mapping.
func (h *Handlers) mapOwnedFetchError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrOwnerMismatch) {
		return forbidden(c)
	}
	return h.handleTaskError(c, err)
}

// handleTaskError maps task store failures to responses. Errors cross the
// service container as strings, so mapping matches stable message substrings.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "title is required"):
		return validationError(c, "Title is required")
	case strings.Contains(errStr, "title exceeds"):
		return validationError(c, "Title must be at most 200 characters")
	case strings.Contains(errStr, "description exceeds"):
		return validationError(c, "Description must be at most 1000 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleAuthError maps auth service failures to responses.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	if strings.Contains(err.Error(), "email is required") {
		return badRequest(c, "Email is required")
	}

	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func validStatus(status string) bool {
	switch status {
	case "", tasks.StatusActive, tasks.StatusCompleted:
		return true
	}
	return false
}

func validSort(sort string) bool {
	switch sort {
	case "", tasks.SortCreatedAt, tasks.SortUpdatedAt:
		return true
	}
	return false
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func validationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
		Error:   "forbidden",
		Message: forbiddenMessage,
	})
}
