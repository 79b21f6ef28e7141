package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/demoserver/backend/internal/api/handler"
	"github.com/demoserver/backend/internal/api/metrics"
	"github.com/demoserver/backend/internal/api/middleware"
	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService
	Files    ports.FileStorage
	Log      zerolog.Logger

	// UploadDir is served read-only under /files.
	UploadDir    string
	UploadPolicy domain.UploadPolicy

	// AllowedOrigins for CORS; empty disables the CORS middleware.
	AllowedOrigins []string
	// TokenRate limits POST /auth/token per client IP; zero disables it.
	TokenRate  rate.Limit
	TokenBurst int

	// ReadyChecks are run by /health/ready.
	ReadyChecks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// Per-router registry so several routers can coexist in one process.
	httpRegistry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if len(d.AllowedOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     d.AllowedOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Registerer: httpRegistry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(d.Auth))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	productHandler := handler.NewProductHandler(d.Products)
	uploadHandler := handler.NewUploadHandler(d.Files, d.UploadPolicy, d.Log)
	miscHandler := handler.NewMiscHandler()
	healthHandler := handler.NewHealthHandler()
	readyHandler := handler.NewReadinessHandler(d.ReadyChecks)

	require := middleware.Require

	// --- Info, probes, metrics (no auth required) ---
	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{metrics.Registry, httpRegistry},
	}))
	if d.UploadDir != "" {
		e.Static("/files", d.UploadDir)
	}

	v1 := e.Group(handler.APIPrefix)
	v1.GET("", handler.APIInfo)

	// --- Auth ---
	auth := v1.Group("/auth")
	tokenMiddleware := []echo.MiddlewareFunc{}
	if d.TokenRate > 0 {
		tokenMiddleware = append(tokenMiddleware, tokenRateLimiter(d.TokenRate, d.TokenBurst))
	}
	auth.POST("/token", authHandler.Token, tokenMiddleware...)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, require(domain.ActionViewProfile, nil))

	// --- Users ---
	users := v1.Group("/users")
	users.GET("", userHandler.List, require(domain.ActionListUsers, nil))
	users.POST("", userHandler.Create, require(domain.ActionCreateUser, nil))
	users.GET("/:id", userHandler.Get, require(domain.ActionGetUser, nil))
	users.PUT("/:id", userHandler.Update, require(domain.ActionUpdateUser, middleware.PathOwner("id")))
	users.DELETE("/:id", userHandler.Delete, require(domain.ActionDeleteUser, nil))

	// --- Products ---
	products := v1.Group("/products")
	products.GET("", productHandler.List, require(domain.ActionListProducts, nil))
	products.GET("/search", productHandler.Search, require(domain.ActionSearchProducts, nil))
	products.GET("/:id", productHandler.Get, require(domain.ActionGetProduct, nil))
	products.POST("", productHandler.Create, require(domain.ActionCreateProduct, nil))
	products.PUT("/:id", productHandler.Update, require(domain.ActionUpdateProduct, nil))
	products.DELETE("/:id", productHandler.Delete, require(domain.ActionDeleteProduct, nil))

	// --- Uploads ---
	upload := v1.Group("/upload")
	bodyLimit := echomiddleware.BodyLimit(uploadBodyLimit(d.UploadPolicy))
	upload.POST("/single", uploadHandler.Single, require(domain.ActionUploadFile, nil), bodyLimit)
	upload.POST("/multiple", uploadHandler.Multiple, require(domain.ActionUploadFile, nil), bodyLimit)
	upload.GET("/info", uploadHandler.Info, require(domain.ActionUploadInfo, nil))

	// --- Misc ---
	misc := v1.Group("/misc")
	misc.GET("/health", miscHandler.Health)
	misc.GET("/ping", miscHandler.Ping)
	misc.GET("/time", miscHandler.Time)
	misc.GET("/echo", miscHandler.Echo)
	misc.POST("/echo", miscHandler.EchoPost)
	misc.GET("/weather", miscHandler.Weather)
	misc.GET("/slow", miscHandler.Slow)
	misc.GET("/error", miscHandler.Error)
	misc.GET("/random-quote", miscHandler.RandomQuote)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func tokenRateLimiter(limit rate.Limit, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many token requests")
		},
	})
}

// uploadBodyLimit allows a full batch of maximum-size files plus multipart overhead.
func uploadBodyLimit(p domain.UploadPolicy) string {
	files := int64(max(p.MaxFiles, 1))
	mb := (p.MaxFileBytes*files)>>20 + 1
	return strconv.FormatInt(mb, 10) + "M"
}

