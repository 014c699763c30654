package tables

import (
	"github.com/gin-gonic/gin"
)

// SetupTableRoutes configures all table-related routes
func SetupTableRoutes(rg *gin.RouterGroup, controller *Controller) {
	tables := rg.Group("/tables")
	{
		tables.GET("/available", controller.FindAvailable) // GET /api/v1/tables/available?gameType=&minCapacity=
		tables.GET("/:id", controller.GetTable)            // GET /api/v1/tables/:id
		tables.GET("/:id/seats", controller.GetTableSeats) // GET /api/v1/tables/:id/seats
	}
}
