package api

// SignInRequest represents a sign-in request body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest represents a sign-up request body.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateTaskRequest represents a task creation body. UserID is required
// and must match the owner segment of the path.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

// UpdateTaskRequest represents a partial update body. Absent fields keep
// their prior values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ErrorResponse represents an error response. Error is a machine-stable
// reason string; Message is human-readable.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
