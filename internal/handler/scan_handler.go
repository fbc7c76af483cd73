package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/internal/service"
)

type ScanHandler struct {
	service service.ScanService
	secret  string
}

type scanResponse struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Triggered int    `json:"triggered"`
	Sent      int    `json:"sent"`
	At        string `json:"at"`
}

func NewScanHandler(service service.ScanService, secret string) *ScanHandler {
	return &ScanHandler{service: service, secret: normalizeSecret(secret)}
}

func (h *ScanHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/alerts/scan", h.Scan)
	g.GET("/alerts/scan", h.Scan)
}

// Scan runs one batch. Without a configured secret the trigger is open.
// Once CRON_SECRET is set, every caller must send X-Cron-Secret: a request
// without the header now gets 403, where older deployments let it through.
//
// @Summary      Run an alert scan
// @Description  Processes one batch of due alerts and mails digests for new matches.
// @Tags         alerts
// @Produce      json
// @Param        X-Cron-Secret  header    string  false  "Shared secret, required when CRON_SECRET is set"
// @Success      200            {object}  scanResponse
// @Failure      403            {object}  errorResponse
// @Failure      409            {object}  errorResponse
// @Failure      500            {object}  errorResponse
// @Router       /api/alerts/scan [post]
func (h *ScanHandler) Scan(c echo.Context) error {
	if !cronAuthorized(c, h.secret) {
		return writeServiceError(c, service.ErrForbidden)
	}

	res, err := h.service.Run(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, scanResponse{
		Success:   true,
		Processed: res.Processed,
		Triggered: res.Triggered,
		Sent:      res.Sent,
		At:        res.At.UTC().Format(time.RFC3339Nano),
	})
}
