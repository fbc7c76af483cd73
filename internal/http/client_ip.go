package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// EdgeClientIPHeader is set by the edge proxy and cannot be forged by clients.
	EdgeClientIPHeader = "X-Nf-Client-Connection-Ip"
	UnknownClientIP    = "0.0.0.0"
)

// ClientIP prefers the edge-provided address, then the first X-Forwarded-For
// entry, then UnknownClientIP.
func ClientIP(c echo.Context) string {
	req := c.Request()
	if ip := strings.TrimSpace(req.Header.Get(EdgeClientIPHeader)); ip != "" {
		return ip
	}
	if xff := req.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return UnknownClientIP
}
