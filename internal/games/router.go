package games

import "github.com/gin-gonic/gin"

func SetupGameRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/games", controller.ListGames) // GET /api/v1/games?category=&players=&search=
}
