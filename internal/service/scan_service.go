//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"wissensbank/backend/internal/digest"
	"wissensbank/backend/internal/mailer"
	"wissensbank/backend/internal/metrics"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/pkg/logger"
)

const (
	// earlyFireFactor lets an alert fire when a batch runs slightly ahead of
	// its schedule instead of skipping a whole cycle.
	earlyFireFactor = 0.85
	firstLookback   = 7 * 24 * time.Hour
)

// ScanResult summarizes one batch: processed counts every alert pulled,
// triggered those with fresh matches, sent those the provider accepted.
type ScanResult struct {
	Processed int
	Triggered int
	Sent      int
	At        time.Time
}

type ScanOptions struct {
	SiteURL    string
	SiteName   string
	BatchLimit int
}

type ScanService interface {
	Run(ctx context.Context) (ScanResult, error)
	IsRunning() bool
}

type scanService struct {
	alerts   AlertService
	hits     repository.AlertHitRepository
	docs     repository.DocumentRepository
	entities repository.EntityRepository
	mail     mailer.Mailer
	opts     ScanOptions
	clock    Clock

	mu      sync.Mutex
	running bool
}

func NewScanService(alerts AlertService, hits repository.AlertHitRepository, docs repository.DocumentRepository, entities repository.EntityRepository, mail mailer.Mailer, opts ScanOptions, clock Clock) ScanService {
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	if opts.BatchLimit < 1 {
		opts.BatchLimit = 80
	}
	return &scanService{
		alerts:   alerts,
		hits:     hits,
		docs:     docs,
		entities: entities,
		mail:     mail,
		opts:     opts,
		clock:    orSystemClock(clock),
	}
}

func (s *scanService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *scanService) Run(ctx context.Context) (ScanResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ScanResult{}, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	due, err := s.alerts.ListDue(ctx, s.opts.BatchLimit)
	if err != nil {
		metrics.ScanRuns.WithLabelValues("failed").Inc()
		logger.Error("scan list alerts", "module", "service", "action", "list", "resource", "alert", "result", "failed", "error", err)
		return ScanResult{}, fmt.Errorf("list due alerts: %w", err)
	}

	var result ScanResult
	for _, alert := range due {
		if err := ctx.Err(); err != nil {
			break
		}
		result.Processed++
		metrics.ScanAlerts.WithLabelValues(metrics.StageProcessed).Inc()

		outcome, err := s.scanAlert(ctx, alert)
		if err != nil {
			metrics.ScanAlerts.WithLabelValues(metrics.StageFailed).Inc()
			logger.Warn("scan alert failed", "module", "service", "action", "scan", "resource", "alert", "result", "failed", "alert_id", alert.ID, "error", err)
		}
		if outcome.triggered {
			result.Triggered++
			metrics.ScanAlerts.WithLabelValues(metrics.StageTriggered).Inc()
		}
		if outcome.sent {
			result.Sent++
			metrics.ScanAlerts.WithLabelValues(metrics.StageSent).Inc()
		}
		if outcome.skipped {
			metrics.ScanAlerts.WithLabelValues(metrics.StageSkipped).Inc()
		}
	}

	result.At = s.clock()
	metrics.ScanRuns.WithLabelValues("ok").Inc()
	logger.Info("scan completed", "module", "service", "action", "scan", "resource", "alert", "result", "ok",
		"processed", result.Processed, "triggered", result.Triggered, "sent", result.Sent)
	return result, nil
}

type alertOutcome struct {
	skipped   bool
	triggered bool
	sent      bool
}

// dueForCheck applies the frequency gate. Never-checked alerts are always due.
func dueForCheck(alert model.Alert, now time.Time) bool {
	if alert.LastCheckedAt == nil {
		return true
	}
	minGap := time.Duration(float64(alert.Frequency.Interval()) * earlyFireFactor)
	return now.Sub(*alert.LastCheckedAt) >= minGap
}

func (s *scanService) scanAlert(ctx context.Context, alert model.Alert) (alertOutcome, error) {
	now := s.clock()
	if !dueForCheck(alert, now) {
		return alertOutcome{skipped: true}, nil
	}

	term, title := s.resolveTerm(ctx, alert)
	if term == "" {
		return alertOutcome{skipped: true}, nil
	}

	since := now.Add(-firstLookback)
	if alert.LastCheckedAt != nil {
		since = *alert.LastCheckedAt
	}

	candidates, err := s.docs.Search(ctx, term, since, model.ClampLimitPerSend(alert.LimitPerSend))
	if err != nil {
		return alertOutcome{}, fmt.Errorf("search documents: %w", err)
	}

	fresh := make([]model.Document, 0, len(candidates))
	for _, doc := range candidates {
		created, err := s.hits.Record(ctx, alert.ID, doc.ID, now)
		if err != nil {
			logger.Warn("record alert hit failed", "module", "service", "action", "create", "resource", "alert_hit", "result", "failed", "alert_id", alert.ID, "document_id", doc.ID, "error", err)
			continue
		}
		if created {
			fresh = append(fresh, doc)
		}
	}

	if err := s.alerts.TouchChecked(ctx, alert.ID); err != nil {
		return alertOutcome{}, fmt.Errorf("touch checked: %w", err)
	}

	if len(fresh) == 0 {
		return alertOutcome{}, nil
	}

	outcome := alertOutcome{triggered: true}
	items := make([]digest.Item, 0, len(fresh))
	for _, doc := range fresh {
		items = append(items, s.digestItem(doc))
	}

	html, err := digest.Compose(fmt.Sprintf("%s: %s (%d neu)", s.opts.SiteName, title, len(items)), items, s.alerts.UnsubscribeURL(alert))
	if err != nil {
		return outcome, err
	}

	subject := fmt.Sprintf("%s Alert: %s (%d neu)", s.opts.SiteName, term, len(items))
	res, err := s.mail.Send(ctx, alert.Email, subject, html)
	if err != nil {
		return outcome, fmt.Errorf("send digest: %w", err)
	}
	if !res.Sent {
		logger.Info("digest not sent", "module", "service", "action", "send", "resource", "alert", "result", "skipped", "alert_id", alert.ID, "provider", res.Provider)
		return outcome, nil
	}

	outcome.sent = true
	if err := s.alerts.TouchTriggered(ctx, alert.ID); err != nil {
		return outcome, fmt.Errorf("touch triggered: %w", err)
	}
	logger.Info("digest sent", "module", "service", "action", "send", "resource", "alert", "result", "ok", "alert_id", alert.ID, "items", len(items))
	return outcome, nil
}

// resolveTerm returns the match term and the digest heading for alert.
func (s *scanService) resolveTerm(ctx context.Context, alert model.Alert) (string, string) {
	if alert.Kind == model.AlertKindName {
		slug := ""
		if alert.EntitySlug != nil {
			slug = strings.TrimSpace(*alert.EntitySlug)
		}
		term := slug
		if slug != "" {
			entity, err := s.entities.GetBySlug(ctx, slug)
			if err != nil {
				logger.Warn("resolve entity failed", "module", "service", "action", "get", "resource", "entity", "result", "failed", "slug", slug, "error", err)
			} else if entity != nil && strings.TrimSpace(entity.Name) != "" {
				term = strings.TrimSpace(entity.Name)
			}
		}
		return term, "Name Alert: " + term
	}

	term := ""
	if alert.Query != nil {
		term = strings.TrimSpace(*alert.Query)
	}
	return term, "Search Alert: " + term
}

func (s *scanService) digestItem(doc model.Document) digest.Item {
	source := ""
	if doc.SourceName != nil {
		source = *doc.SourceName
	}
	return digest.Item{
		Title:          doc.Title,
		SourceLabel:    source,
		PublishedLabel: digest.FormatPublished(doc.PublishedAt),
		URL:            s.opts.SiteURL + "/a/" + url.PathEscape(doc.Slug),
	}
}
