package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wissensbank/backend/internal/metrics"
	"wissensbank/backend/pkg/logger"
	"wissensbank/backend/pkg/network"
)

const (
	DefaultResendEndpoint = "https://api.resend.com/emails"
	resendTimeout         = 15 * time.Second
	maxErrorBody          = 300
)

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendMailer delivers mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey        string
	from          string
	endpoint      string
	clientFactory *network.ClientFactory
	limiter       *RateLimiter
}

type ResendOption func(*ResendMailer)

// WithEndpoint overrides the API URL.
func WithEndpoint(endpoint string) ResendOption {
	return func(m *ResendMailer) { m.endpoint = endpoint }
}

func NewResendMailer(apiKey, from string, clientFactory *network.ClientFactory, limiter *RateLimiter, opts ...ResendOption) *ResendMailer {
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRatePerSecond)
	}
	m := &ResendMailer{
		apiKey:        strings.TrimSpace(apiKey),
		from:          from,
		endpoint:      DefaultResendEndpoint,
		clientFactory: clientFactory,
		limiter:       limiter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) (Result, error) {
	if m.apiKey == "" {
		return Result{Provider: ProviderResend}, ErrNotConfigured
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return Result{Provider: ProviderResend}, err
	}

	payload, err := json.Marshal(resendRequest{From: m.from, To: []string{to}, Subject: subject, HTML: html})
	if err != nil {
		return Result{Provider: ProviderResend}, fmt.Errorf("encode mail: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Provider: ProviderResend}, err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.clientFactory.NewHTTPClient(ctx, resendTimeout).Do(req)
	metrics.MailSendDuration.WithLabelValues(ProviderResend).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MailSends.WithLabelValues(ProviderResend, "error").Inc()
		return Result{Provider: ProviderResend}, fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.MailSends.WithLabelValues(ProviderResend, "sent").Inc()
		return Result{Sent: true, Provider: ProviderResend}, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		metrics.MailSends.WithLabelValues(ProviderResend, "error").Inc()
		return Result{Provider: ProviderResend}, fmt.Errorf("resend error: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	metrics.MailSends.WithLabelValues(ProviderResend, "declined").Inc()
	logger.Warn("mail declined", "module", "mailer", "action", "send", "resource", "mail", "result", "declined", "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
	return Result{Sent: false, Provider: ProviderResend}, nil
}

// New picks the Resend mailer when an API key is configured, else DevMailer.
func New(apiKey, from string, ratePerSecond float64, clientFactory *network.ClientFactory) Mailer {
	if strings.TrimSpace(apiKey) == "" {
		return DevMailer{}
	}
	limiter := NewRateLimiter(ratePerSecond)
	logger.Info("mailer configured", "module", "mailer", "action", "configure", "resource", "mail", "result", "ok", "provider", ProviderResend, "rate_per_second", limiter.GetLimit())
	return NewResendMailer(apiKey, from, clientFactory, limiter)
}
