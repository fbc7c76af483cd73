package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// parseIDQuery reads a positive int64 query parameter.
func parseIDQuery(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.QueryParam(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
