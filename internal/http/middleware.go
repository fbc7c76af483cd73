package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/internal/handler"
	"wissensbank/backend/internal/metrics"
	"wissensbank/backend/internal/service"
	"wissensbank/backend/pkg/logger"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RouteLimit names a fixed window applied per client IP.
type RouteLimit struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	AlertsCreateLimit        = RouteLimit{Name: "alerts_create", Limit: 12, Window: time.Hour}
	NewsletterSubscribeLimit = RouteLimit{Name: "newsletter_subscribe", Limit: 20, Window: time.Hour}
)

type rateLimitInfo struct {
	Allowed   bool   `json:"allowed"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reset     string `json:"reset"`
}

type rateLimitedResponse struct {
	Error     string        `json:"error"`
	RateLimit rateLimitInfo `json:"rateLimit"`
}

// RateLimitMiddleware counts every request against the client's bucket for
// route before the handler runs. A failing counter store rejects the request.
func RateLimitMiddleware(svc service.RateLimitService, route RouteLimit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := ClientIP(c)
			decision, err := svc.CheckClient(c.Request().Context(), ip, route.Limit, route.Window, route.Name)
			if err != nil {
				metrics.RateLimitDecisions.WithLabelValues(route.Name, "error").Inc()
				logger.Error("rate limit check failed", "module", "http", "action", "check", "resource", "rate_limit", "result", "failed", "route", route.Name, "error", err)
				return handler.Error(c, http.StatusServiceUnavailable, "rate limit unavailable")
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				metrics.RateLimitDecisions.WithLabelValues(route.Name, "denied").Inc()
				logger.Warn("rate limit exceeded", "module", "http", "action", "check", "resource", "rate_limit", "result", "denied", "route", route.Name, "count", decision.Count)
				retry := int(time.Until(decision.ResetAt).Seconds())
				if retry < 1 {
					retry = 1
				}
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, rateLimitedResponse{
					Error: "Rate limit exceeded",
					RateLimit: rateLimitInfo{
						Allowed:   false,
						Limit:     decision.Limit,
						Remaining: decision.Remaining,
						Reset:     decision.ResetAt.UTC().Format(time.RFC3339),
					},
				})
			}

			metrics.RateLimitDecisions.WithLabelValues(route.Name, "allowed").Inc()
			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs one line per request, leveled by status.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			status := res.Status
			fields := []any{
				"module", "http",
				"action", "request",
				"resource", "route",
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http request", append(fields, "result", "failed")...)
			case status >= http.StatusBadRequest:
				logger.Warn("http request", append(fields, "result", "rejected")...)
			default:
				logger.Info("http request", append(fields, "result", "ok")...)
			}
			return nil
		}
	}
}
