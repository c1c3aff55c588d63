package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagesnap/chromecapture/api/handler"
	"github.com/pagesnap/chromecapture/api/middleware"
	"github.com/pagesnap/chromecapture/config"
)

// Version is reported in the Server header and the status endpoint.
const Version = "1.1.0"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → Server header
//	Capture: Auth (if keys configured) → RateLimit (if enabled)
//
// Status endpoint is intentionally outside auth so monitoring probes always
// work.
func NewRouter(r handler.Renderer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(gin.Logger())
	e.Use(serverHeader())

	e.GET("/status", handler.Status(Version, startTime))

	capture := e.Group("")
	if len(cfg.Auth.APIKeys) > 0 {
		capture.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.Enabled {
		capture.Use(middleware.RateLimit(cfg.RateLimit))
	}

	capture.GET("/", handler.Capture(r))
	capture.POST("/", handler.Capture(r))

	return e
}

// serverHeader stamps every response with the server identification header.
func serverHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Server", "ChromeCapture/"+Version)
		c.Next()
	}
}
