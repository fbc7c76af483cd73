package handler

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
)

const CronSecretHeader = "X-Cron-Secret"

// cronAuthorized reports whether a scheduled trigger may run. An empty secret
// leaves the trigger open; otherwise the header must match it exactly.
func cronAuthorized(c echo.Context, secret string) bool {
	if secret == "" {
		return true
	}
	provided := c.Request().Header.Get(CronSecretHeader)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

func normalizeSecret(secret string) string {
	return strings.TrimSpace(secret)
}
