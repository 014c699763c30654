package tables

import (
	"errors"
	"net/http"

	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/apiclient"

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

// GetTable godoc
// @Summary Get one table
// @Tags tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /tables/{id} [get]
func (c *Controller) GetTable(ctx *gin.Context) {
	table, err := c.service.GetTable(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to fetch table")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Table retrieved successfully", table, nil)
}

func (c *Controller) GetTableSeats(ctx *gin.Context) {
	seats, err := c.service.GetTableSeats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to fetch seats")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (c *Controller) FindAvailable(ctx *gin.Context) {
	var query AvailableTablesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}

	found, err := c.service.FindAvailable(ctx.Request.Context(), query)
	if err != nil {
		c.respondError(ctx, err, "Failed to search tables")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Available tables retrieved successfully", found, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrTableNotFound) {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Table not found", nil, nil)
		return
	}
	response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, fallback), nil, nil)
}
