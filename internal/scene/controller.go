package scene

import (
	"net/http"

	"gamespace/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetLayout godoc
// @Summary Room layout as a 2D grid or 3D scene
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param view query string false "2d or 3d"
// @Success 200 {object} response.StandardApiResponse
// @Router /rooms/{id}/layout [get]
func (c *Controller) GetLayout(ctx *gin.Context) {
	view := c.service.Layout(ctx.Request.Context(), ctx.Param("id"), ParseMode(ctx.Query("view")))
	if view.State == StateError {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, view.Message, view, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room layout retrieved successfully", view, nil)
}

// SetupSceneRoutes registers the layout endpoint under the rooms group
func SetupSceneRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/rooms/:id/layout", controller.GetLayout) // GET /api/v1/rooms/:id/layout?view=2d|3d
}
