package http

import (
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "wissensbank/backend/docs"

	"wissensbank/backend/internal/handler"
	"wissensbank/backend/internal/service"
)

func NewRouter(
	alertHandler *handler.AlertHandler,
	scanHandler *handler.ScanHandler,
	newsletterHandler *handler.NewsletterHandler,
	healthHandler *handler.HealthHandler,
	rateLimitService service.RateLimitService,
	staticDir string,
	enableSwagger bool,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestLoggerMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, handler.CronSecretHeader},
	}))

	e.GET("/healthz", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if enableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api")
	alertHandler.RegisterRoutes(api, RateLimitMiddleware(rateLimitService, AlertsCreateLimit))
	scanHandler.RegisterRoutes(api)
	newsletterHandler.RegisterRoutes(api, RateLimitMiddleware(rateLimitService, NewsletterSubscribeLimit))

	registerStatic(e, staticDir)

	return e
}
