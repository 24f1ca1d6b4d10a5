package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/config"
	"github.com/lumberbarons/sun2000-poller/internal/inverter"
)

// Application wires the HTTP surface of the poller: Prometheus metrics and a
// JSON snapshot of the inverter session.
type Application struct {
	config  *config.Config
	router  *gin.Engine
	session *inverter.Session
}

// NewApplication creates and initializes a new Application instance.
func NewApplication(cfg *config.Config, session *inverter.Session) *Application {
	app := &Application{
		config:  cfg,
		session: session,
	}

	app.router = gin.Default()
	if err := app.router.SetTrustedProxies(nil); err != nil {
		log.Warnf("failed to set trusted proxies: %v", err)
	}

	app.setupRoutes()

	return app
}

func (a *Application) setupRoutes() {
	handler := promhttp.Handler()
	a.router.GET("/metrics", func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	})

	a.router.GET("/api/inverter/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.session.Snapshot())
	})
}

// Run starts the HTTP server and blocks until it exits.
func (a *Application) Run() error {
	log.Infof("starting server on port %v", a.config.InverterPoller.HTTPPort)
	return a.router.Run(fmt.Sprintf(":%v", a.config.InverterPoller.HTTPPort))
}

// Router returns the Gin router instance for testing purposes.
func (a *Application) Router() *gin.Engine {
	return a.router
}
