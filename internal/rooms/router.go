package rooms

import (
	"github.com/gin-gonic/gin"
)

// SetupRoomRoutes configures the room browsing routes
func SetupRoomRoutes(rg *gin.RouterGroup, controller *Controller) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", controller.ListRooms)   // GET /api/v1/rooms?date=YYYY-MM-DD
		rooms.GET("/:id", controller.GetRoom) // GET /api/v1/rooms/:id?date=YYYY-MM-DD
	}
}
