package live

import "github.com/gin-gonic/gin"

func SetupLiveRoutes(r gin.IRoutes, hub *Hub) {
	r.GET("/ws/availability", hub.ServeWS) // GET /ws/availability (websocket)
}
