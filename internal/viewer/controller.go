package viewer

import (
	"errors"
	"net/http"
	"strings"

	"gamespace/internal/bookings"
	"gamespace/internal/rooms"
	"gamespace/internal/scene"
	"gamespace/internal/session"
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

// bind decodes and validates a JSON body, answering 400 on failure
func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return false
	}
	return true
}

// GetViewer godoc
// @Summary Room viewer state of this session
// @Tags viewer
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /viewer [get]
func (c *Controller) GetViewer(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	snap, err := c.service.Snapshot(ctx.Request.Context(), s)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Viewer state retrieved successfully", snap, nil)
}

// EnterRoom godoc
// @Summary Open a room in the viewer
// @Tags viewer
// @Accept json
// @Produce json
// @Param body body EnterRoomRequest true "Room"
// @Success 200 {object} response.StandardApiResponse
// @Router /viewer/room [post]
func (c *Controller) EnterRoom(ctx *gin.Context) {
	var req EnterRoomRequest
	if !c.bind(ctx, &req) {
		return
	}

	s := session.MustFromContext(ctx.Request.Context())
	snap, err := c.service.EnterRoom(ctx.Request.Context(), s, req.RoomID, scene.ParseMode(req.View))
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room opened", snap, nil)
}

func (c *Controller) LeaveRoom(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	if err := c.service.LeaveRoom(ctx.Request.Context(), s); err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Back to rooms", nil, nil)
}

// SeatClick godoc
// @Summary Pick a seat; opens the booking modal
// @Tags viewer
// @Accept json
// @Produce json
// @Param body body SeatClickRequest true "Seat"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /viewer/seat-click [post]
func (c *Controller) SeatClick(ctx *gin.Context) {
	var req SeatClickRequest
	if !c.bind(ctx, &req) {
		return
	}

	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.SeatClick(ctx.Request.Context(), s, req.TableID, req.SeatNumber)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seat selected", view, nil)
}

// TableClick godoc
// @Summary Pick a whole table; opens the booking modal
// @Tags viewer
// @Accept json
// @Produce json
// @Param body body TableClickRequest true "Table"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /viewer/table-click [post]
func (c *Controller) TableClick(ctx *gin.Context) {
	var req TableClickRequest
	if !c.bind(ctx, &req) {
		return
	}

	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.TableClick(ctx.Request.Context(), s, req.TableID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Table selected", view, nil)
}

func (c *Controller) GetModal(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.Modal(ctx.Request.Context(), s)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking modal retrieved", view, nil)
}

func (c *Controller) CloseModal(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	if err := c.service.CloseModal(ctx.Request.Context(), s); err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking modal closed", nil, nil)
}

func (c *Controller) SelectDate(ctx *gin.Context) {
	var req SelectDateRequest
	if !c.bind(ctx, &req) {
		return
	}
	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.SelectDate(ctx.Request.Context(), s, req.Date)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Date selected", view, nil)
}

func (c *Controller) SelectSlot(ctx *gin.Context) {
	var req SelectSlotRequest
	if !c.bind(ctx, &req) {
		return
	}
	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.SelectSlot(ctx.Request.Context(), s, req.Slot)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Time slot selected", view, nil)
}

func (c *Controller) SelectPlayers(ctx *gin.Context) {
	var req SelectPlayersRequest
	if !c.bind(ctx, &req) {
		return
	}
	s := session.MustFromContext(ctx.Request.Context())
	view, err := c.service.SelectPlayers(ctx.Request.Context(), s, req.Players)
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Player count selected", view, nil)
}

// Submit godoc
// @Summary Submit the booking modal
// @Tags viewer
// @Produce json
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /viewer/modal/submit [post]
func (c *Controller) Submit(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	result, err := c.service.Submit(ctx.Request.Context(), s)
	if err != nil && result != nil {
		// the API refused; the modal stays open with its message
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), result.Modal.Error, result, nil)
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, result.Notice, result, nil)
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoRoom):
		response.RespondJSON(ctx, "error", http.StatusConflict, "No room selected", nil, nil)
	case errors.Is(err, ErrNoModal):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "No booking in progress", nil, nil)
	case errors.Is(err, ErrUnknownTable), errors.Is(err, rooms.ErrRoomNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, capitalize(err), nil, nil)
	case errors.Is(err, ErrSeatUnavailable), errors.Is(err, ErrTableUnavailable),
		errors.Is(err, bookings.ErrSlotUnavailable), errors.Is(err, bookings.ErrFormIncomplete),
		errors.Is(err, bookings.ErrSubmitInFlight), errors.Is(err, session.ErrLocked):
		response.RespondJSON(ctx, "error", http.StatusConflict, capitalize(err), nil, nil)
	case errors.Is(err, bookings.ErrDateOutOfRange), errors.Is(err, bookings.ErrInvalidPlayers),
		errors.Is(err, bookings.ErrInvalidDraft):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, capitalize(err), nil, nil)
	default:
		_ = ctx.Error(err)
		response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, "Something went wrong"), nil, nil)
	}
}

func capitalize(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
