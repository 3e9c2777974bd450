// Package web wires the browser client: routes, middleware and page rendering.
package web

import (
	"context"
	"net/http"
	"time"

	"execdesk/internal/common/http/middleware"
	"execdesk/internal/web/controller"
	"execdesk/internal/web/service"
	"execdesk/internal/web/templates"
	"execdesk/pkg/errors"
	"execdesk/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries the services and settings the router needs.
type Options struct {
	SubmitService *service.SubmitService
	ListService   *service.ListService
	// Ready is checked by /readyz; nil means always ready.
	Ready Pinger

	MetricsEnabled bool
	MetricsPath    string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(opts Options) (*gin.Engine, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, errors.Wrapf(err, errors.InternalServerError, "parse templates failed: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.RequestLogger())
	router.SetHTMLTemplate(tmpl)

	formController := controller.NewFormController(opts.SubmitService)
	submissionsController := controller.NewSubmissionsController(opts.ListService)

	router.GET("/", formController.Show)
	router.POST("/", formController.Submit)
	router.GET("/submissions", submissionsController.List)
	router.StaticFS("/static", http.FS(templates.Static()))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", func(c *gin.Context) {
		if opts.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := opts.Ready.Ping(ctx); err != nil {
				response.Error(c, errors.Wrap(err, errors.ServiceUnavailable))
				return
			}
		}
		response.Success(c, gin.H{"status": "ready"})
	})
	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.Handler()))
	}
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	return router, nil
}

// NewHandler wraps the router with response compression.
func NewHandler(router *gin.Engine) http.Handler {
	return gzhttp.GzipHandler(router)
}
