package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"wissensbank/backend/internal/service"
	"wissensbank/backend/pkg/logger"
)

const (
	defaultRunTimeout  = 10 * time.Minute
	rateLimitRetention = 24 * time.Hour
)

// Scheduler fires the alert cycle (ingest, then scan, then counter cleanup)
// and the daily briefing, each on its own cron schedule.
type Scheduler struct {
	ingest     service.IngestService
	scan       service.ScanService
	rateLimits service.RateLimitService
	newsletter service.NewsletterService
	timeout    time.Duration

	parser    cron.Parser
	c         *cron.Cron
	schedules []string

	ctx    context.Context
	cancel context.CancelFunc // cancels every in-flight run
}

func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		timeout: timeout,
		parser:  parser,
		c: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ScheduleCycle registers the alert cycle. ingest and rateLimits may be nil.
func (s *Scheduler) ScheduleCycle(schedule string, ingest service.IngestService, scan service.ScanService, rateLimits service.RateLimitService) error {
	s.ingest = ingest
	s.scan = scan
	s.rateLimits = rateLimits
	return s.add("cycle", schedule, s.RunOnce)
}

// ScheduleBriefing registers the daily newsletter send.
func (s *Scheduler) ScheduleBriefing(schedule string, newsletter service.NewsletterService) error {
	s.newsletter = newsletter
	return s.add("briefing", schedule, s.RunBriefing)
}

func (s *Scheduler) add(name, schedule string, job func()) error {
	if _, err := s.parser.Parse(schedule); err != nil {
		return fmt.Errorf("parse %s schedule %q: %w", name, schedule, err)
	}
	if _, err := s.c.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("register %s schedule: %w", name, err)
	}
	s.schedules = append(s.schedules, name+"="+schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.c.Start()
	logger.Info("scheduler started", "module", "scheduler", "action", "start", "resource", "cron", "result", "ok", "schedule", strings.Join(s.schedules, ", "))
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.c.Stop().Done()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "stop", "resource", "cron", "result", "ok")
}

// RunOnce executes one full alert cycle synchronously.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if s.ingest != nil {
		res, err := s.ingest.IngestAll(ctx)
		if err != nil {
			logger.Error("scheduled ingest", "module", "scheduler", "action", "ingest", "resource", "document", "result", "failed", "error", err)
		} else {
			logger.Info("scheduled ingest", "module", "scheduler", "action", "ingest", "resource", "document", "result", "ok", "feeds", res.Feeds, "failed", res.Failed, "count", res.Created)
		}
	}
	if ctx.Err() != nil {
		logger.Info("scheduled run cancelled", "module", "scheduler", "action", "run", "resource", "cron", "result", "cancelled")
		return
	}

	res, err := s.scan.Run(ctx)
	switch {
	case errors.Is(err, service.ErrAlreadyRunning):
		logger.Info("scheduled scan skipped", "module", "scheduler", "action", "scan", "resource", "alert", "result", "skipped")
	case err != nil:
		logger.Error("scheduled scan", "module", "scheduler", "action", "scan", "resource", "alert", "result", "failed", "error", err)
	default:
		logger.Info("scheduled scan", "module", "scheduler", "action", "scan", "resource", "alert", "result", "ok", "processed", res.Processed, "triggered", res.Triggered, "sent", res.Sent)
	}

	if s.rateLimits != nil && ctx.Err() == nil {
		_, _ = s.rateLimits.PurgeExpired(ctx, rateLimitRetention)
	}
}

// RunBriefing sends the daily briefing synchronously.
func (s *Scheduler) RunBriefing() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	res, err := s.newsletter.SendBriefing(ctx)
	if err != nil {
		logger.Error("scheduled briefing", "module", "scheduler", "action", "send", "resource", "newsletter", "result", "failed", "error", err)
		return
	}
	logger.Info("scheduled briefing", "module", "scheduler", "action", "send", "resource", "newsletter", "result", "ok", "recipients", res.Recipients, "sent", res.Sent, "failed", res.Failed)
}
