package rooms

import (
	"errors"
	"net/http"
	"time"

	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	now       func() time.Time
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		now:       time.Now,
	}
}

// ListRooms godoc
// @Summary Room selector: rooms merged with availability
// @Tags rooms
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} response.StandardApiResponse
// @Router /rooms [get]
func (c *Controller) ListRooms(ctx *gin.Context) {
	date, ok := c.bindDate(ctx)
	if !ok {
		return
	}

	sel := LoadSelector(ctx.Request.Context(), c.service, date)
	if sel.RoomsError != "" && len(sel.Cards) == 0 {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, sel.RoomsError, sel, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Rooms retrieved successfully", sel, nil)
}

// GetRoom godoc
// @Summary One room with its availability for the day
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /rooms/{id} [get]
func (c *Controller) GetRoom(ctx *gin.Context) {
	date, ok := c.bindDate(ctx)
	if !ok {
		return
	}

	room, err := c.service.GetRoom(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Room not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, "Failed to fetch room"), nil, nil)
		return
	}

	// a missing availability record only blanks the header counters
	avail, err := c.service.GetAvailability(ctx.Request.Context(), date)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx.Request.Context(), "Failed to load room availability", err, map[string]interface{}{
			"room_id": room.ID,
			"date":    date,
		})
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room retrieved successfully", NewDetailResponse(*room, date, avail), nil)
}

func (c *Controller) bindDate(ctx *gin.Context) (string, bool) {
	var query DateQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return "", false
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return "", false
	}
	if query.Date == "" {
		return Today(c.now()), true
	}
	return query.Date, true
}
