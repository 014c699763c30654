package bookings

import (
	"errors"
	"net/http"

	"gamespace/internal/session"
	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/apiclient"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	receipts  *Receipts
	validator *validator.Validate
}

func NewController(service Service, receipts *Receipts) *Controller {
	return &Controller{
		service:   service,
		receipts:  receipts,
		validator: validator.New(),
	}
}

// GetUserBookings godoc
// @Summary Bookings of the signed in user
// @Tags bookings
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /bookings [get]
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	list, err := c.service.GetUserBookings(ctx.Request.Context())
	if err != nil {
		c.respondError(ctx, err, "Failed to fetch bookings")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", NewBookingResponses(list), nil)
}

// GetBooking godoc
// @Summary One booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	b, err := c.service.GetBookingByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to fetch booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", NewBookingResponse(*b), nil)
}

func (c *Controller) UpdateBooking(ctx *gin.Context) {
	var req UpdateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "End time must be after start time", nil, nil)
		return
	}

	b, err := c.service.UpdateBooking(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking updated successfully", NewBookingResponse(*b), nil)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Tags bookings
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/{id} [delete]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	s := session.MustFromContext(ctx.Request.Context())
	if err := c.service.CancelBooking(ctx.Request.Context(), s.Username(), ctx.Param("id")); err != nil {
		c.respondError(ctx, err, "Failed to cancel booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", nil, nil)
}

// GetAvailableSlots godoc
// @Summary Time slots of a table on a date
// @Tags bookings
// @Produce json
// @Param tableId query string true "Table ID"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/available-slots [get]
func (c *Controller) GetAvailableSlots(ctx *gin.Context) {
	var query SlotsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, response.ValidationErrors(err))
		return
	}

	slots, err := c.service.GetAvailableSlots(ctx.Request.Context(), query.TableID, query.Date)
	if err != nil {
		c.respondError(ctx, err, "Failed to load time slots")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Time slots retrieved successfully", slots, nil)
}

// GetReceipt godoc
// @Summary PDF receipt with a signed QR code
// @Tags bookings
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} file
// @Router /bookings/{id}/receipt [get]
func (c *Controller) GetReceipt(ctx *gin.Context) {
	b, err := c.service.GetBookingByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to fetch booking")
		return
	}

	s := session.MustFromContext(ctx.Request.Context())
	pdf, err := c.receipts.Render(*b, s.Username())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to generate receipt", nil, nil)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=booking-"+b.ID+".pdf")
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}

func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrBookingNotFound) {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		return
	}
	response.RespondJSON(ctx, "error", apiclient.StatusOf(err), apiclient.MessageOf(err, fallback), nil, nil)
}
