//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wissensbank/backend/internal/digest"
	"wissensbank/backend/internal/mailer"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/pkg/logger"
)

type SubscribeResult struct {
	Email string
	Sent  bool
	// ConfirmURL is only set when no mail provider is configured.
	ConfirmURL string
}

const (
	briefingWindow         = 24 * time.Hour
	briefingDocumentLimit  = 10
	briefingRecipientLimit = 500
)

// BriefingResult summarizes one briefing run. Failed counts recipients whose
// send returned an error; the remaining recipients are still attempted.
type BriefingResult struct {
	Recipients int
	Documents  int
	Sent       int
	Failed     int
	At         time.Time
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (SubscribeResult, error)
	Confirm(ctx context.Context, email, token string) (bool, error)
	Unsubscribe(ctx context.Context, email, token string) (bool, error)
	SendBriefing(ctx context.Context) (BriefingResult, error)
}

type newsletterService struct {
	subscribers repository.SubscriberRepository
	documents   repository.DocumentRepository
	mail        mailer.Mailer
	siteURL     string
	siteName    string
	clock       Clock
}

func NewNewsletterService(subscribers repository.SubscriberRepository, documents repository.DocumentRepository, mail mailer.Mailer, siteURL, siteName string, clock Clock) NewsletterService {
	return &newsletterService{
		subscribers: subscribers,
		documents:   documents,
		mail:        mail,
		siteURL:     strings.TrimRight(siteURL, "/"),
		siteName:    siteName,
		clock:       orSystemClock(clock),
	}
}

func (s *newsletterService) Subscribe(ctx context.Context, rawEmail string) (SubscribeResult, error) {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return SubscribeResult{}, err
	}
	token, err := newToken()
	if err != nil {
		return SubscribeResult{}, fmt.Errorf("generate token: %w", err)
	}

	sub, err := s.subscribers.Upsert(ctx, email, token, s.clock())
	if err != nil {
		logger.Error("subscribe failed", "module", "service", "action", "create", "resource", "subscriber", "result", "failed", "error", err)
		return SubscribeResult{}, fmt.Errorf("upsert subscriber: %w", err)
	}

	confirmURL := s.linkURL("/api/newsletter/confirm", sub.Email, sub.Token)
	html, err := digest.NewsletterConfirmation(s.siteName, confirmURL, s.linkURL("/api/newsletter/unsubscribe", sub.Email, sub.Token))
	if err != nil {
		return SubscribeResult{}, err
	}
	res, err := s.mail.Send(ctx, sub.Email, s.siteName+" Briefing: Bitte bestätigen", html)
	if err != nil {
		logger.Error("send newsletter confirmation failed", "module", "service", "action", "send", "resource", "subscriber", "result", "failed", "subscriber_id", sub.ID, "error", err)
		return SubscribeResult{}, fmt.Errorf("send confirmation: %w", err)
	}
	logger.Info("subscriber upserted", "module", "service", "action", "create", "resource", "subscriber", "result", "ok", "subscriber_id", sub.ID, "status", sub.Status)

	result := SubscribeResult{Email: sub.Email, Sent: res.Sent}
	if res.Dev {
		result.ConfirmURL = confirmURL
	}
	return result, nil
}

func (s *newsletterService) Confirm(ctx context.Context, email, token string) (bool, error) {
	email, token = strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(token)
	if email == "" || token == "" {
		return false, invalid("token", "Missing email/token")
	}
	ok, err := s.subscribers.Confirm(ctx, email, token, s.clock())
	if err != nil {
		return false, fmt.Errorf("confirm subscriber: %w", err)
	}
	return ok, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email, token string) (bool, error) {
	email, token = strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(token)
	if email == "" || token == "" {
		return false, invalid("token", "Missing email/token")
	}
	ok, err := s.subscribers.Unsubscribe(ctx, email, token)
	if err != nil {
		return false, fmt.Errorf("unsubscribe subscriber: %w", err)
	}
	return ok, nil
}

// SendBriefing mails the documents of the last 24 hours to every active
// subscriber, each with a personal unsubscribe link.
func (s *newsletterService) SendBriefing(ctx context.Context) (BriefingResult, error) {
	now := s.clock()
	result := BriefingResult{At: now}

	subs, err := s.subscribers.ListActive(ctx, briefingRecipientLimit)
	if err != nil {
		return result, fmt.Errorf("list active subscribers: %w", err)
	}
	docs, err := s.documents.ListRecent(ctx, now.Add(-briefingWindow), briefingDocumentLimit)
	if err != nil {
		return result, fmt.Errorf("list recent documents: %w", err)
	}
	result.Recipients = len(subs)
	result.Documents = len(docs)

	items := make([]digest.Item, 0, len(docs))
	for _, doc := range docs {
		source := ""
		if doc.SourceName != nil {
			source = *doc.SourceName
		}
		items = append(items, digest.Item{
			Title:          doc.Title,
			SourceLabel:    source,
			PublishedLabel: digest.FormatPublished(doc.PublishedAt),
			URL:            s.siteURL + "/a/" + url.PathEscape(doc.Slug),
		})
	}

	subject := s.siteName + " Briefing: neue Einträge"
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		html, err := digest.Briefing(s.siteName, items, s.linkURL("/api/newsletter/unsubscribe", sub.Email, sub.Token))
		if err != nil {
			return result, err
		}
		res, err := s.mail.Send(ctx, sub.Email, subject, html)
		if err != nil {
			result.Failed++
			logger.Warn("send briefing failed", "module", "service", "action", "send", "resource", "subscriber", "result", "failed", "subscriber_id", sub.ID, "error", err)
			continue
		}
		if res.Sent {
			result.Sent++
		}
	}

	logger.Info("briefing finished", "module", "service", "action", "send", "resource", "newsletter", "result", "ok",
		"recipients", result.Recipients, "documents", result.Documents, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (s *newsletterService) linkURL(path, email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return s.siteURL + path + "?" + q.Encode()
}
