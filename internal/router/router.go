// Package router registers the HTTP routes of the API.
package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/handler"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	JWTSecret string
	Sessions  middleware.SessionSource
	Throttle  echo.MiddlewareFunc
	Metrics   http.Handler
	Log       *zap.Logger

	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Orders   *handler.OrderHandler
	Catalog  *handler.CatalogHandler
	Bookings *handler.BookingHandler
}

// New builds the Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(d.Log))

	// every account route runs JWTAuth first, then checks the token's
	// email against the store's single active session
	protected := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireActiveSession(d.Sessions, d.Log),
	}

	RegisterRoutes(e, d.Metrics)
	RegisterAuth(e, d.Auth, d.Throttle, protected...)
	RegisterPublic(e, d.Catalog)
	RegisterCustomer(e, d.Profile, d.Orders, protected...)
	RegisterBookings(e, d.Bookings, protected...)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers signup, login and logout under /v1/auth.  The
// throttle, when given, only guards login.  Logout ends the shared
// active session, so it runs behind the session middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, throttle echo.MiddlewareFunc, session ...echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	if throttle != nil {
		g.POST("/login", a.Login, throttle)
	} else {
		g.POST("/login", a.Login)
	}
	g.POST("/logout", a.Logout, session...)
}

// RegisterPublic registers the unauthenticated browse endpoints.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler) {
	e.GET("/v1/cinemas", handler.Cinemas)
	e.GET("/v1/movies", h.ListMovies)
	e.GET("/v1/movies/search", h.Search)
	e.GET("/v1/movies/:id", h.GetMovie)
	e.GET("/v1/movies/:id/reviews", h.MovieReviews)
	e.GET("/v1/genres", h.Genres)
	e.GET("/v1/directors", h.Directors)
	e.GET("/v1/actors", h.Actors)
	e.GET("/v1/runtimes", h.Runtimes)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Debug("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}
