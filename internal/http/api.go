package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-api/internal/auth"
	"account-api/internal/domain"
	"account-api/internal/service"
)

// Handler wires HTTP routes to the account service and the auth guard.
type Handler struct {
	users  service.UserService
	guard  *auth.Guard
	logger *logrus.Logger
}

func NewHandler(users service.UserService, guard *auth.Guard, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		guard:  guard,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.POST("/login", h.login)

		owned := users.Group("/:id", h.requireAuth())
		owned.GET("", h.getUser)
		owned.PUT("", h.updateUser)
		owned.DELETE("", h.deleteUser)
	}
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// updateUserRequest keeps "field omitted" and "field set to empty" apart.
type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// UserResponse is the public view of a user. It never carries the password hash.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), service.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("user created")
	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeError(c, auth.ErrInvalidCredentials)
		return
	}

	token, err := h.guard.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.authorizedTarget(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if user == nil {
		writeNotFound(c)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.authorizedTarget(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, service.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if user == nil {
		writeNotFound(c)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.authorizedTarget(c)
	if !ok {
		return
	}

	deleted, err := h.users.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		writeNotFound(c)
		return
	}

	h.logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	c.Status(http.StatusNoContent)
}

// authorizedTarget parses the path id and checks it against the authenticated subject.
func (h *Handler) authorizedTarget(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}

	subject, ok := subjectFromContext(c)
	if !ok {
		h.writeError(c, auth.ErrUnauthenticated)
		return 0, false
	}
	if err := h.guard.Authorize(subject, id); err != nil {
		h.writeError(c, err)
		return 0, false
	}
	return id, true
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
