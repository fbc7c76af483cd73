//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"wissensbank/backend/internal/digest"
	"wissensbank/backend/internal/mailer"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/pkg/logger"
	"wissensbank/backend/pkg/sanitizer"
)

const (
	maxQueryRunes  = 140
	minTermRunes   = 2
	alertSubject   = " Alert: Bitte bestätigen"
	msgInvalidMail = "Bitte gültige E-Mail angeben."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateAlertInput is the raw request; fields are validated and normalized by Create.
type CreateAlertInput struct {
	Email        string
	Kind         string
	Query        string
	EntitySlug   string
	Frequency    string
	LimitPerSend int
}

type CreateAlertResult struct {
	Alert model.Alert
	Sent  bool
	// ConfirmURL is only set when no mail provider is configured.
	ConfirmURL string
}

type AlertService interface {
	Create(ctx context.Context, input CreateAlertInput) (CreateAlertResult, error)
	Confirm(ctx context.Context, id int64, token string) (bool, error)
	Unsubscribe(ctx context.Context, id int64, token string) (bool, error)
	ListDue(ctx context.Context, limit int) ([]model.Alert, error)
	TouchChecked(ctx context.Context, id int64) error
	TouchTriggered(ctx context.Context, id int64) error
	UnsubscribeURL(alert model.Alert) string
}

type alertService struct {
	alerts   repository.AlertRepository
	mail     mailer.Mailer
	siteURL  string
	siteName string
	clock    Clock
}

func NewAlertService(alerts repository.AlertRepository, mail mailer.Mailer, siteURL, siteName string, clock Clock) AlertService {
	return &alertService{
		alerts:   alerts,
		mail:     mail,
		siteURL:  strings.TrimRight(siteURL, "/"),
		siteName: siteName,
		clock:    orSystemClock(clock),
	}
}

// NormalizeEmail trims and lowercases an address and checks its shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", invalid("email", msgInvalidMail)
	}
	return email, nil
}

func (s *alertService) Create(ctx context.Context, input CreateAlertInput) (CreateAlertResult, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return CreateAlertResult{}, err
	}

	alert := model.Alert{
		Email:        email,
		Kind:         model.ParseAlertKind(input.Kind),
		Status:       model.AlertStatusPending,
		Frequency:    model.ParseFrequency(input.Frequency),
		LimitPerSend: model.ClampLimitPerSend(input.LimitPerSend),
		CreatedAt:    s.clock(),
	}

	var label, subject string
	switch alert.Kind {
	case model.AlertKindName:
		slug := sanitizer.CleanQuery(input.EntitySlug, maxQueryRunes)
		if len([]rune(slug)) < minTermRunes {
			return CreateAlertResult{}, invalid("slug", "Bitte Namen/Slug angeben.")
		}
		alert.EntitySlug = &slug
		label, subject = "Name", slug
	default:
		query := sanitizer.CleanQuery(input.Query, maxQueryRunes)
		if len([]rune(query)) < minTermRunes {
			return CreateAlertResult{}, invalid("query", "Bitte Suchbegriff angeben.")
		}
		alert.Query = &query
		label, subject = "Suche", query
	}

	token, err := newToken()
	if err != nil {
		return CreateAlertResult{}, fmt.Errorf("generate token: %w", err)
	}
	alert.Token = token

	created, err := s.alerts.Create(ctx, alert)
	if err != nil {
		logger.Error("create alert failed", "module", "service", "action", "create", "resource", "alert", "result", "failed", "error", err)
		return CreateAlertResult{}, fmt.Errorf("create alert: %w", err)
	}
	logger.Info("alert created", "module", "service", "action", "create", "resource", "alert", "result", "ok", "alert_id", created.ID, "kind", created.Kind, "frequency", created.Frequency)

	confirmURL := s.linkURL("/api/alerts/confirm", created)
	html, err := digest.AlertConfirmation(label, subject, confirmURL, s.UnsubscribeURL(created))
	if err != nil {
		return CreateAlertResult{}, err
	}

	res, err := s.mail.Send(ctx, created.Email, s.siteName+alertSubject, html)
	if err != nil {
		logger.Error("send alert confirmation failed", "module", "service", "action", "send", "resource", "alert", "result", "failed", "alert_id", created.ID, "error", err)
		return CreateAlertResult{}, fmt.Errorf("send confirmation: %w", err)
	}

	result := CreateAlertResult{Alert: created, Sent: res.Sent}
	if res.Dev {
		result.ConfirmURL = confirmURL
	}
	return result, nil
}

func (s *alertService) Confirm(ctx context.Context, id int64, token string) (bool, error) {
	if id <= 0 || strings.TrimSpace(token) == "" {
		return false, invalid("token", "Missing params")
	}
	ok, err := s.alerts.Confirm(ctx, id, strings.TrimSpace(token))
	if err != nil {
		return false, fmt.Errorf("confirm alert: %w", err)
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	logger.Info("alert confirm", "module", "service", "action", "update", "resource", "alert", "result", result, "alert_id", id)
	return ok, nil
}

func (s *alertService) Unsubscribe(ctx context.Context, id int64, token string) (bool, error) {
	if id <= 0 || strings.TrimSpace(token) == "" {
		return false, invalid("token", "Missing params")
	}
	ok, err := s.alerts.Unsubscribe(ctx, id, strings.TrimSpace(token), s.clock())
	if err != nil {
		return false, fmt.Errorf("unsubscribe alert: %w", err)
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	logger.Info("alert unsubscribe", "module", "service", "action", "update", "resource", "alert", "result", result, "alert_id", id)
	return ok, nil
}

func (s *alertService) ListDue(ctx context.Context, limit int) ([]model.Alert, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalid, limit)
	}
	return s.alerts.ListDue(ctx, limit)
}

func (s *alertService) TouchChecked(ctx context.Context, id int64) error {
	return s.alerts.TouchChecked(ctx, id, s.clock())
}

func (s *alertService) TouchTriggered(ctx context.Context, id int64) error {
	return s.alerts.TouchTriggered(ctx, id, s.clock())
}

func (s *alertService) UnsubscribeURL(alert model.Alert) string {
	return s.linkURL("/api/alerts/unsubscribe", alert)
}

func (s *alertService) linkURL(path string, alert model.Alert) string {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(alert.ID, 10))
	q.Set("token", alert.Token)
	return s.siteURL + path + "?" + q.Encode()
}
