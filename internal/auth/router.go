package auth

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all auth routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", controller.Login)   // POST /api/v1/auth/login
		auth.POST("/signup", controller.Signup) // POST /api/v1/auth/signup
		auth.POST("/logout", controller.Logout) // POST /api/v1/auth/logout
		auth.GET("/me", controller.GetMe)       // GET /api/v1/auth/me
	}
}
