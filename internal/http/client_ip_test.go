package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	gh "wissensbank/backend/internal/http"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "none", expected: gh.UnknownClientIP},
		{name: "forwarded_first", headers: map[string]string{"X-Forwarded-For": " 198.51.100.1 , 10.0.0.1"}, expected: "198.51.100.1"},
		{
			name: "edge_wins",
			headers: map[string]string{
				"X-Forwarded-For":     "198.51.100.1",
				gh.EdgeClientIPHeader: "203.0.113.9",
			},
			expected: "203.0.113.9",
		},
		{name: "blank_forwarded", headers: map[string]string{"X-Forwarded-For": " , 10.0.0.1"}, expected: gh.UnknownClientIP},
	}

	e := echo.New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			require.Equal(t, tc.expected, gh.ClientIP(c))
		})
	}
}
