package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/internal/service"
)

type NewsletterHandler struct {
	service service.NewsletterService
	siteURL string
	secret  string
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResponse struct {
	Success    bool   `json:"success"`
	Email      string `json:"email"`
	Sent       bool   `json:"sent"`
	ConfirmURL string `json:"confirmUrl,omitempty"`
}

type briefingResponse struct {
	Success    bool   `json:"success"`
	Recipients int    `json:"recipients"`
	Documents  int    `json:"documents"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	At         string `json:"at"`
}

func NewNewsletterHandler(service service.NewsletterService, siteURL, secret string) *NewsletterHandler {
	return &NewsletterHandler{
		service: service,
		siteURL: strings.TrimRight(siteURL, "/"),
		secret:  normalizeSecret(secret),
	}
}

func (h *NewsletterHandler) RegisterRoutes(g *echo.Group, subscribeLimit echo.MiddlewareFunc) {
	g.POST("/newsletter/subscribe", h.Subscribe, subscribeLimit)
	g.GET("/newsletter/confirm", h.Confirm)
	g.GET("/newsletter/unsubscribe", h.Unsubscribe)
	g.POST("/newsletter/briefing", h.Briefing)
	g.GET("/newsletter/briefing", h.Briefing)
}

// Subscribe starts the double opt-in for the daily briefing.
//
// @Summary      Subscribe to the briefing
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request  body      subscribeRequest  true  "Subscriber email"
// @Success      200      {object}  subscribeResponse
// @Failure      400      {object}  errorResponse
// @Failure      429      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}
	res, err := h.service.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, subscribeResponse{
		Success:    true,
		Email:      res.Email,
		Sent:       res.Sent,
		ConfirmURL: res.ConfirmURL,
	})
}

// @Summary      Confirm a subscription
// @Tags         newsletter
// @Param        email  query  string  true  "Subscriber email"
// @Param        token  query  string  true  "Subscriber token"
// @Success      302
// @Failure      400  {object}  errorResponse
// @Router       /api/newsletter/confirm [get]
func (h *NewsletterHandler) Confirm(c echo.Context) error {
	email, token := c.QueryParam("email"), c.QueryParam("token")
	if strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return Error(c, http.StatusBadRequest, "Missing email/token")
	}
	ok, err := h.service.Confirm(c.Request().Context(), email, token)
	if err != nil {
		return writeServiceError(c, err)
	}
	status := "confirmed"
	if !ok {
		status = "invalid"
	}
	return c.Redirect(http.StatusFound, h.siteURL+"/newsletter.html?status="+status)
}

// @Summary      Unsubscribe from the briefing
// @Tags         newsletter
// @Param        email  query  string  true  "Subscriber email"
// @Param        token  query  string  true  "Subscriber token"
// @Success      302
// @Failure      400  {object}  errorResponse
// @Router       /api/newsletter/unsubscribe [get]
func (h *NewsletterHandler) Unsubscribe(c echo.Context) error {
	email, token := c.QueryParam("email"), c.QueryParam("token")
	if strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return Error(c, http.StatusBadRequest, "Missing email/token")
	}
	if _, err := h.service.Unsubscribe(c.Request().Context(), email, token); err != nil {
		return writeServiceError(c, err)
	}
	return c.Redirect(http.StatusFound, h.siteURL+"/newsletter.html?status=unsubscribed")
}

// Briefing mails the daily briefing to all active subscribers. It is guarded
// by the same cron secret as the alert scan.
//
// @Summary      Send the daily briefing
// @Tags         newsletter
// @Produce      json
// @Param        X-Cron-Secret  header    string  false  "Shared secret, required when CRON_SECRET is set"
// @Success      200            {object}  briefingResponse
// @Failure      403            {object}  errorResponse
// @Failure      500            {object}  errorResponse
// @Router       /api/newsletter/briefing [post]
func (h *NewsletterHandler) Briefing(c echo.Context) error {
	if !cronAuthorized(c, h.secret) {
		return writeServiceError(c, service.ErrForbidden)
	}
	res, err := h.service.SendBriefing(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, briefingResponse{
		Success:    true,
		Recipients: res.Recipients,
		Documents:  res.Documents,
		Sent:       res.Sent,
		Failed:     res.Failed,
		At:         res.At.UTC().Format(time.RFC3339Nano),
	})
}
