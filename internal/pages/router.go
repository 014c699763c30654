package pages

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// SetupPageRoutes installs the templates and the page routes on r. The
// handlers run in front of every page, the 404 page included.
func SetupPageRoutes(r *gin.Engine, controller *Controller, handlers ...gin.HandlerFunc) error {
	tmpl, err := Templates()
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	pages := r.Group("/", handlers...)
	{
		pages.GET("", controller.Home)         // GET /
		pages.GET("login", controller.Login)   // GET /login
		pages.GET("signup", controller.Signup) // GET /signup
		pages.GET("games", controller.Games)   // GET /games
	}
	r.NoRoute(append(handlers, controller.NotFound)...)
	return nil
}
