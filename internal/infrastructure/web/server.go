package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/infrastructure/ml"
	"FakeNewsDetector/internal/session"
	"FakeNewsDetector/internal/usecase"
)

const (
	sessionCookie = "fnd_session"
	sessionHeader = "X-Session-ID"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HealthChecker probes the classification service.
type HealthChecker interface {
	Health(ctx context.Context) (ml.Health, error)
}

// Deps wires the HTTP surface to the session registry and adapters.
type Deps struct {
	Sessions     *session.Registry
	Upstream     HealthChecker
	Metrics      http.Handler
	Logger       *slog.Logger
	AllowOrigins []string
}

// Server serves the HTML page and the JSON API on top of per-session controllers.
type Server struct {
	sessions *session.Registry
	upstream HealthChecker
	logger   *slog.Logger
}

type pageData struct {
	View       usecase.View
	LabelClass string
}

type submitRequest struct {
	Text string `json:"text"`
}

// NewRouter creates and configures the gin engine.
func NewRouter(deps Deps) *gin.Engine {
	s := &Server{
		sessions: deps.Sessions,
		upstream: deps.Upstream,
		logger:   deps.Logger,
	}

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.Use(RequestID())
	router.Use(Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowOrigins)))

	router.GET("/", s.page)
	router.POST("/analyze", s.analyze)
	router.POST("/clear", s.clear)
	router.POST("/sample", s.sample)

	router.GET("/health", s.health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := router.Group("/api")
	{
		api.GET("/state", s.apiState)
		api.POST("/submit", s.apiSubmit)
		api.POST("/reset", s.apiReset)
		api.POST("/sample", s.apiSample)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", sessionHeader},
		ExposeHeaders: []string{"Content-Length", sessionHeader, requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (s *Server) controller(c *gin.Context) *usecase.Controller {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id, _ = c.Cookie(sessionCookie)
	}

	id, ctrl := s.sessions.Open(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	c.Header(sessionHeader, id)
	return ctrl
}

// submitContext keeps an issued prediction running after the client disconnects.
func submitContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (s *Server) render(c *gin.Context, view usecase.View) {
	data := pageData{View: view}
	if view.Result != nil {
		if view.Result.Label == domain.LabelFake {
			data.LabelClass = "fake"
		} else {
			data.LabelClass = "real"
		}
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) page(c *gin.Context) {
	s.render(c, s.controller(c).View())
}

func (s *Server) analyze(c *gin.Context) {
	ctrl := s.controller(c)
	s.render(c, ctrl.Submit(submitContext(c), c.PostForm("text")))
}

func (s *Server) clear(c *gin.Context) {
	s.controller(c).Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) sample(c *gin.Context) {
	s.controller(c).LoadSample()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) apiState(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller(c).View())
}

func (s *Server) apiSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctrl := s.controller(c)
	c.JSON(http.StatusOK, ctrl.Submit(submitContext(c), req.Text))
}

func (s *Server) apiReset(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller(c).Reset())
}

func (s *Server) apiSample(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller(c).LoadSample())
}

func (s *Server) health(c *gin.Context) {
	resp := gin.H{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	}

	if s.upstream == nil {
		resp["upstream"] = "not configured"
		c.JSON(http.StatusOK, resp)
		return
	}

	upstream, err := s.upstream.Health(c.Request.Context())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("upstream health check failed", "error", err)
		}
		resp["upstream"] = "unavailable"
		c.JSON(http.StatusOK, resp)
		return
	}

	resp["upstream"] = upstream
	c.JSON(http.StatusOK, resp)
}
