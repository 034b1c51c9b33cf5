package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mchen1024/todovault/internal/models"
	"github.com/mchen1024/todovault/internal/store"
)

// One deliberate message for every login failure. Unknown email and
// wrong password must be indistinguishable to the caller.
const loginFailedMessage = "invalid email or password"

type Handler struct {
	users store.UserStore
	todos store.TodoStore
}

func NewHandler(users store.UserStore, todos store.TodoStore) *Handler {
	return &Handler{users: users, todos: todos}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/users", h.handleRegister)
	router.POST("/users/login", h.handleLogin)

	protected := router.Group("", Authenticate(h.users))
	protected.GET("/users/me", h.handleMe)
	protected.DELETE("/users/me/token", h.handleLogout)
	protected.POST("/todos", h.handleCreateTodo)
	protected.GET("/todos", h.handleListTodos)
	protected.GET("/todos/:id", h.handleGetTodo)
	protected.PATCH("/todos/:id", h.handleUpdateTodo)
	protected.DELETE("/todos/:id", h.handleDeleteTodo)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createTodoRequest struct {
	Text      string `json:"text" binding:"required"`
	Completed bool   `json:"completed"`
}

type updateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidEmail),
			errors.Is(err, store.ErrPasswordTooShort):
			writeError(c, http.StatusBadRequest, trimPrefix(err))
		case errors.Is(err, store.ErrEmailTaken):
			writeError(c, http.StatusBadRequest, "email already registered")
		default:
			failRequest(c, "register user", err)
		}
		return
	}

	token, err := h.users.IssueToken(c.Request.Context(), user)
	if err != nil {
		failRequest(c, "issue token", err)
		return
	}

	c.Header(AuthHeader, token)
	c.JSON(http.StatusOK, user.Sanitize())
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, loginFailedMessage)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidEmail),
			errors.Is(err, store.ErrUserNotFound),
			errors.Is(err, store.ErrInvalidCredentials):
			writeError(c, http.StatusBadRequest, loginFailedMessage)
		default:
			failRequest(c, "login", err)
		}
		return
	}

	token, err := h.users.IssueToken(c.Request.Context(), user)
	if err != nil {
		failRequest(c, "issue token", err)
		return
	}

	c.Header(AuthHeader, token)
	c.JSON(http.StatusOK, user.Sanitize())
}

func (h *Handler) handleMe(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, user.Sanitize())
}

func (h *Handler) handleLogout(c *gin.Context) {
	user, token := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	if err := h.users.RevokeToken(c.Request.Context(), user, token); err != nil {
		failRequest(c, "revoke token", err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) handleCreateTodo(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), user.ID, req.Text, req.Completed)
	if err != nil {
		if errors.Is(err, models.ErrTextTooShort) {
			writeError(c, http.StatusBadRequest, trimPrefix(err))
			return
		}
		failRequest(c, "create todo", err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *Handler) handleListTodos(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	todos, err := h.todos.List(c.Request.Context(), user.ID)
	if err != nil {
		failRequest(c, "list todos", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (h *Handler) handleGetTodo(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	todo, err := h.todos.GetByID(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.writeTodoError(c, "get todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (h *Handler) handleUpdateTodo(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	update := store.TodoUpdate{Text: req.Text, Completed: req.Completed}
	todo, err := h.todos.UpdateByID(c.Request.Context(), user.ID, c.Param("id"), update)
	if err != nil {
		h.writeTodoError(c, "update todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (h *Handler) handleDeleteTodo(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}

	todo, err := h.todos.DeleteByID(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.writeTodoError(c, "delete todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (h *Handler) writeTodoError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "todo not found")
	case errors.Is(err, models.ErrTextTooShort):
		writeError(c, http.StatusBadRequest, trimPrefix(err))
	default:
		failRequest(c, op, err)
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// failRequest reports an unexpected store failure. Every failure in
// this API surfaces as a client-class status; the cause goes to the
// log, not the response.
func failRequest(c *gin.Context, op string, err error) {
	zap.L().Error(op+" failed", zap.Error(err))
	writeError(c, http.StatusBadRequest, "request failed")
}

// trimPrefix strips the package tag from sentinel errors before they
// reach response bodies.
func trimPrefix(err error) string {
	msg := strings.TrimPrefix(err.Error(), "store: ")
	return strings.TrimPrefix(msg, "models: ")
}
