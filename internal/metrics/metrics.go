package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wissensbank_rate_limit_decisions_total",
			Help: "Rate limit checks by route and outcome.",
		},
		[]string{"route", "outcome"},
	)
	ScanRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wissensbank_alert_scan_runs_total",
			Help: "Alert scan batches by result.",
		},
		[]string{"result"},
	)
	ScanAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wissensbank_alert_scan_alerts_total",
			Help: "Alerts seen by the scanner, split into processed, skipped, triggered, sent and failed.",
		},
		[]string{"stage"},
	)
	MailSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wissensbank_mail_send_total",
			Help: "Outbound mail attempts by provider and status.",
		},
		[]string{"provider", "status"},
	)
	MailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wissensbank_mail_send_duration_seconds",
			Help:    "Duration of outbound mail provider requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
	IngestedDocuments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wissensbank_ingested_documents_total",
			Help: "Documents newly stored by feed ingest.",
		},
	)
)

const (
	StageProcessed = "processed"
	StageSkipped   = "skipped"
	StageTriggered = "triggered"
	StageSent      = "sent"
	StageFailed    = "failed"
)
