// Package ginadapter serves the route table from a long-running gin
// process: the whole namespace under one API prefix, plus health and
// metrics endpoints.
package ginadapter

import (
	"net/http"
	"strings"
	"time"

	"cardapio-backend/internal/adapter"
	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/metrics"
	"cardapio-backend/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Options struct {
	Dispatcher *router.Dispatcher
	Metrics    *metrics.Recorder
	Logger     zerolog.Logger
	// APIPrefix is stripped before dispatch, "/api" by default.
	APIPrefix string
	// AllowedOrigins empty means any origin.
	AllowedOrigins []string
	BodyLimit      int64
	Production     bool
}

func New(opts Options) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())
	r.Use(requestID(opts.Logger))
	r.Use(preflightPassthrough(prefix, cors.New(corsConfig(opts.AllowedOrigins))))

	r.GET("/health", gin.WrapF(adapter.Health))
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	dispatch := func(c *gin.Context) {
		adapter.Serve(opts.Dispatcher, c.Writer, c.Request, prefix, opts.BodyLimit, nil)
	}
	r.Any(prefix+"/*path", dispatch)

	// the bare prefix serves the snapshot, anything else is not ours
	r.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == prefix {
			dispatch(c)
			return
		}
		httpErr := errs.NewRouteNotFoundError(c.Request.URL.Path)
		c.JSON(httpErr.Status, api.ErrorBody(httpErr))
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", adapter.RequestIDHeader},
		ExposeHeaders: []string{adapter.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// preflightPassthrough lets the dispatcher answer preflight requests under
// the API prefix, so each endpoint reports its own methods. Everything else
// goes through the CORS policy.
func preflightPassthrough(prefix string, policy gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions && adapter.Prefix(c.Request.URL.Path, prefix) != "" {
			c.Next()
			return
		}
		policy(c)
	}
}

func requestID(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, id := adapter.WithRequestID(c.Writer, c.Request, base)
		c.Request = req
		c.Set(adapter.RequestIDKey, id)
		c.Next()
	}
}
