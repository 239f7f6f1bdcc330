package router // package router defines how HTTP routes are registered for the API

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/handler"
	"github.com/mdkhajajamaludin/wellness/internal/middleware"
)

// Options configures the Echo instance built by New.
type Options struct {
	Log          zerolog.Logger
	AllowOrigins []string
	// Middleware wraps every /api/* record route, e.g. rate limiting and the
	// response cache.  It runs after request id, logging and CORS.
	Middleware []echo.MiddlewareFunc
}

// New returns an Echo instance with the global middleware stack (recover,
// request id, request logging, CORS) and a JSON error handler installed.
// Routes are registered separately.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler(opts.Log)

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	return e
}

// RegisterRoutes registers the health check.  It stays outside the record
// group so it is never rate limited or cached.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
}

// RegisterRecords registers the healthcare, food diet and notes endpoints
// under /api, wrapped in mw.
func RegisterRecords(e *echo.Echo, h *handler.RecordHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api", mw...)

	g.GET("/healthcare", h.ListHealthcare)
	g.POST("/healthcare", h.CreateHealthcare)
	g.DELETE("/healthcare/:id", h.DeleteHealthcare)

	g.GET("/food-diet", h.ListFoodDiet)
	g.POST("/food-diet", h.CreateFoodDiet)
	g.DELETE("/food-diet/:id", h.DeleteFoodDiet)

	// Update and delete are owner-checked by the handlers.
	g.GET("/notes", h.ListNotes)
	g.POST("/notes", h.CreateNote)
	g.PUT("/notes/:id", h.UpdateNote)
	g.DELETE("/notes/:id", h.DeleteNote)
}

// jsonErrorHandler renders framework errors (unknown route, wrong method,
// recovered panics) as {"error": "..."} like the handlers do.
func jsonErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
		if code >= 500 {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
