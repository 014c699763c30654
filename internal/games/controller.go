package games

import (
	"errors"
	"net/http"

	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// ListGames godoc
// @Summary Games inventory
// @Tags games
// @Produce json
// @Param category query string false "Category"
// @Param players query int false "Player count the game must support"
// @Param search query string false "Title search"
// @Success 200 {object} response.StandardApiResponse
// @Failure 503 {object} response.StandardApiResponse
// @Router /games [get]
func (c *Controller) ListGames(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}

	cards, err := c.service.ListGames(ctx.Request.Context(), query)
	if err != nil {
		if errors.Is(err, ErrInventoryUnavailable) {
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Games inventory is not available", nil, nil)
			return
		}
		logger.GetDefault().ErrorWithContext(ctx.Request.Context(), "Failed to list games", err, nil)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load games", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Games retrieved successfully", cards, nil)
}
