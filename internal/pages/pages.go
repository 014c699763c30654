package pages

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"gamespace/internal/games"
	"gamespace/internal/rooms"
	"gamespace/internal/session"
	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// Page is what every template renders
type Page struct {
	Title string
	User  *session.User
	Year  int
	Data  interface{}
	Error string
}

type Controller struct {
	rooms rooms.Service
	games games.Service
	now   func() time.Time
}

func NewController(roomService rooms.Service, gameService games.Service) *Controller {
	return &Controller{rooms: roomService, games: gameService, now: time.Now}
}

func (c *Controller) page(ctx *gin.Context, title string) Page {
	p := Page{Title: title, Year: c.now().Year()}
	if s, ok := session.FromContext(ctx.Request.Context()); ok && s.IsAuthenticated() {
		p.User = s.User
	}
	return p
}

// Home renders the room selector
func (c *Controller) Home(ctx *gin.Context) {
	p := c.page(ctx, "Rooms")
	p.Data = rooms.LoadSelector(ctx.Request.Context(), c.rooms, rooms.Today(c.now()))
	ctx.HTML(http.StatusOK, "home.html", p)
}

func (c *Controller) Login(ctx *gin.Context) {
	if p := c.page(ctx, "Log in"); p.User != nil {
		ctx.Redirect(http.StatusSeeOther, "/")
	} else {
		ctx.HTML(http.StatusOK, "login.html", p)
	}
}

func (c *Controller) Signup(ctx *gin.Context) {
	if p := c.page(ctx, "Sign up"); p.User != nil {
		ctx.Redirect(http.StatusSeeOther, "/")
	} else {
		ctx.HTML(http.StatusOK, "signup.html", p)
	}
}

func (c *Controller) Games(ctx *gin.Context) {
	p := c.page(ctx, "Games")
	cards, err := c.games.ListGames(ctx.Request.Context(), games.ListQuery{})
	if err != nil {
		status := http.StatusInternalServerError
		p.Error = "Failed to load games"
		if errors.Is(err, games.ErrInventoryUnavailable) {
			status = http.StatusServiceUnavailable
			p.Error = "The games inventory is not available right now"
		} else {
			logger.GetDefault().ErrorWithContext(ctx.Request.Context(), "Failed to render games page", err, nil)
		}
		ctx.HTML(status, "games.html", p)
		return
	}
	p.Data = cards
	ctx.HTML(http.StatusOK, "games.html", p)
}

// NotFound answers API paths with the JSON envelope and everything else
// with the 404 page
func (c *Controller) NotFound(ctx *gin.Context) {
	path := ctx.Request.URL.Path
	logger.GetDefault().Warn("Route not found", "path", path)
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/") {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Route not found", nil, nil)
		return
	}
	ctx.HTML(http.StatusNotFound, "not_found.html", c.page(ctx, "Not found"))
}
