package http

import (
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/pkg/logger"
)

// registerStatic serves the public site (alerts.html, newsletter.html, ...)
// from dir. Unknown paths are 404; there is no index fallback.
func registerStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("static dir not found", "module", "http", "action", "register", "resource", "static", "result", "skipped", "dir", dir)
		return
	}

	fileServer := nethttp.FileServer(nethttp.Dir(dir))

	e.GET("/*", func(c echo.Context) error {
		requestPath := c.Request().URL.Path
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			return echo.ErrNotFound
		}
		if requestPath != "/" {
			candidate := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+requestPath)))
			if fileInfo, err := os.Stat(candidate); err != nil || fileInfo.IsDir() {
				return echo.ErrNotFound
			}
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}
