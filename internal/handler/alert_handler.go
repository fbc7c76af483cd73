package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/internal/service"
)

type AlertHandler struct {
	service service.AlertService
	siteURL string
}

type createAlertRequest struct {
	Email        string `json:"email"`
	Kind         string `json:"kind"`
	Q            string `json:"q"`
	Query        string `json:"query"`
	Slug         string `json:"slug"`
	EntitySlug   string `json:"entity_slug"`
	Frequency    string `json:"frequency"`
	LimitPerSend int    `json:"limitPerSend"`
}

type createAlertResponse struct {
	Success    bool   `json:"success"`
	AlertID    string `json:"alertId"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
	Frequency  string `json:"frequency"`
	Sent       bool   `json:"sent"`
	ConfirmURL string `json:"confirmUrl,omitempty"`
}

func NewAlertHandler(service service.AlertService, siteURL string) *AlertHandler {
	return &AlertHandler{service: service, siteURL: strings.TrimRight(siteURL, "/")}
}

// RegisterRoutes mounts the alert routes; createLimit gates creation.
func (h *AlertHandler) RegisterRoutes(g *echo.Group, createLimit echo.MiddlewareFunc) {
	g.POST("/alerts", h.Create, createLimit)
	g.GET("/alerts/confirm", h.Confirm)
	g.GET("/alerts/unsubscribe", h.Unsubscribe)
}

// Create registers a pending alert and sends the double opt-in mail.
//
// @Summary      Create an alert
// @Description  Registers a search or entity alert. The alert stays pending until confirmed.
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        request  body      createAlertRequest  true  "Alert request"
// @Success      201      {object}  createAlertResponse
// @Failure      400      {object}  errorResponse
// @Failure      429      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	var req createAlertRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}

	res, err := h.service.Create(c.Request().Context(), service.CreateAlertInput{
		Email:        req.Email,
		Kind:         req.Kind,
		Query:        firstNonEmpty(req.Q, req.Query),
		EntitySlug:   firstNonEmpty(req.Slug, req.EntitySlug),
		Frequency:    req.Frequency,
		LimitPerSend: req.LimitPerSend,
	})
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, createAlertResponse{
		Success:    true,
		AlertID:    idToString(res.Alert.ID),
		Email:      res.Alert.Email,
		Kind:       string(res.Alert.Kind),
		Frequency:  string(res.Alert.Frequency),
		Sent:       res.Sent,
		ConfirmURL: res.ConfirmURL,
	})
}

// @Summary      Confirm an alert
// @Tags         alerts
// @Param        id     query  string  true  "Alert ID"
// @Param        token  query  string  true  "Alert token"
// @Success      302
// @Failure      400  {object}  errorResponse
// @Router       /api/alerts/confirm [get]
func (h *AlertHandler) Confirm(c echo.Context) error {
	id, ok := parseIDQuery(c, "id")
	token := strings.TrimSpace(c.QueryParam("token"))
	if !ok || token == "" {
		return Error(c, http.StatusBadRequest, "Missing params")
	}

	confirmed, err := h.service.Confirm(c.Request().Context(), id, token)
	if err != nil {
		return writeServiceError(c, err)
	}
	status := "confirmed"
	if !confirmed {
		status = "invalid"
	}
	return c.Redirect(http.StatusFound, h.siteURL+"/alerts.html?status="+status)
}

// Unsubscribe always lands on the unsubscribed page so the outcome does not
// reveal whether the id/token pair existed.
//
// @Summary      Unsubscribe from an alert
// @Tags         alerts
// @Param        id     query  string  true  "Alert ID"
// @Param        token  query  string  true  "Alert token"
// @Success      302
// @Failure      400  {object}  errorResponse
// @Router       /api/alerts/unsubscribe [get]
func (h *AlertHandler) Unsubscribe(c echo.Context) error {
	id, ok := parseIDQuery(c, "id")
	token := strings.TrimSpace(c.QueryParam("token"))
	if !ok || token == "" {
		return Error(c, http.StatusBadRequest, "Missing params")
	}

	if _, err := h.service.Unsubscribe(c.Request().Context(), id, token); err != nil {
		return writeServiceError(c, err)
	}
	return c.Redirect(http.StatusFound, h.siteURL+"/alerts.html?status=unsubscribed")
}
