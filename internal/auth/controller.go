package auth

import (
	"net/http"

	"gamespace/internal/session"
	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	sessions  *session.Manager
	validator *validator.Validate
}

func NewController(service Service, sessions *session.Manager) *Controller {
	return &Controller{
		service:   service,
		sessions:  sessions,
		validator: validator.New(),
	}
}

// Login godoc
// @Summary Sign in through the GameSpace API
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}

	result, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		logger.GetDefault().LogAuthFailure(ctx.Request.Context(), err.Error(), ctx.ClientIP())
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, "Invalid email or password"), nil, nil)
		return
	}

	c.establish(ctx, result, "login", "Login successful", http.StatusOK)
}

// Signup godoc
// @Summary Create an account through the GameSpace API
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Account"
// @Success 201 {object} response.StandardApiResponse
// @Router /auth/signup [post]
func (c *Controller) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}

	result, err := c.service.Signup(ctx.Request.Context(), &req)
	if err != nil {
		logger.GetDefault().LogAuthFailure(ctx.Request.Context(), err.Error(), ctx.ClientIP())
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, "Failed to create account"), nil, nil)
		return
	}

	c.establish(ctx, result, "signup", "Account created successfully", http.StatusCreated)
}

// establish writes the token and user into the session; the only place
// either is set
func (c *Controller) establish(ctx *gin.Context, result *Result, method, message string, code int) {
	s := session.MustFromContext(ctx.Request.Context())
	if err := c.sessions.Login(ctx.Request.Context(), s, result.Token, result.User); err != nil {
		logger.GetDefault().ErrorWithContext(ctx.Request.Context(), "Failed to store session", err, map[string]interface{}{
			"session_id": s.ID,
		})
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to sign in", nil, nil)
		return
	}

	logger.GetDefault().LogAuthSuccess(ctx.Request.Context(), s.Username(), method)
	response.RespondJSON(ctx, "success", code, message, MeResponse{User: s.User, IsAuthenticated: true}, nil)
}

// Logout godoc
// @Summary Sign out and drop the session
// @Tags auth
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /auth/logout [post]
func (c *Controller) Logout(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	if s.IsAuthenticated() {
		// the local session goes regardless of what the API says
		if err := c.service.Logout(ctx.Request.Context()); err != nil {
			logger.GetDefault().ErrorWithContext(ctx.Request.Context(), "API logout failed", err, nil)
		}
	}

	if err := c.sessions.Logout(ctx.Request.Context(), s); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to log out", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Logged out successfully", nil, nil)
}

// GetMe godoc
// @Summary Current user of this session
// @Tags auth
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /auth/me [get]
func (c *Controller) GetMe(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	if !s.IsAuthenticated() {
		response.RespondJSON(ctx, "success", http.StatusOK, "Not signed in", MeResponse{}, nil)
		return
	}

	user, err := c.service.Me(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, "Failed to fetch user"), nil, nil)
		return
	}
	if user == nil {
		user = s.User
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User data retrieved successfully", MeResponse{User: user, IsAuthenticated: true}, nil)
}
