package viewer

import (
	"gamespace/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupViewerRoutes configures the room viewer and booking modal routes
func SetupViewerRoutes(rg *gin.RouterGroup, controller *Controller) {
	viewer := rg.Group("/viewer")
	{
		viewer.GET("", controller.GetViewer)               // GET /api/v1/viewer
		viewer.DELETE("", controller.LeaveRoom)            // DELETE /api/v1/viewer
		viewer.POST("/room", controller.EnterRoom)         // POST /api/v1/viewer/room
		viewer.POST("/seat-click", controller.SeatClick)   // POST /api/v1/viewer/seat-click
		viewer.POST("/table-click", controller.TableClick) // POST /api/v1/viewer/table-click

		modal := viewer.Group("/modal")
		modal.GET("", controller.GetModal)                                 // GET /api/v1/viewer/modal
		modal.DELETE("", controller.CloseModal)                            // DELETE /api/v1/viewer/modal
		modal.PUT("/date", controller.SelectDate)                          // PUT /api/v1/viewer/modal/date
		modal.PUT("/slot", controller.SelectSlot)                          // PUT /api/v1/viewer/modal/slot
		modal.PUT("/players", controller.SelectPlayers)                    // PUT /api/v1/viewer/modal/players
		modal.POST("/submit", middleware.RequireAuth(), controller.Submit) // POST /api/v1/viewer/modal/submit
	}
}
