//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/semaphore"

	"wissensbank/backend/internal/hashutil"
	"wissensbank/backend/internal/metrics"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/pkg/logger"
	"wissensbank/backend/pkg/network"
	"wissensbank/backend/pkg/sanitizer"
)

const (
	ingestTimeout = 30 * time.Second
	// maxConcurrentIngest bounds parallel feed fetches.
	maxConcurrentIngest = 8
	// maxConcurrentPerHost keeps one request in flight per host.
	maxConcurrentPerHost = 1
	ingestUserAgent      = "Mozilla/5.0 (compatible; WissensBank/1.0; +https://github.com/wissensbank)"

	maxTitleRunes   = 300
	maxExcerptRunes = 500
	maxSummaryRunes = 2000
	maxSlugRunes    = 80
)

// IngestResult counts documents stored by one run.
type IngestResult struct {
	Feeds   int
	Failed  int
	Created int
}

type IngestService interface {
	IngestAll(ctx context.Context) (IngestResult, error)
	IngestFeed(ctx context.Context, feedURL string) (int, error)
}

type ingestService struct {
	docs          repository.DocumentRepository
	feeds         []string
	clientFactory *network.ClientFactory
	clock         Clock
}

func NewIngestService(docs repository.DocumentRepository, feeds []string, clientFactory *network.ClientFactory, clock Clock) IngestService {
	return &ingestService{
		docs:          docs,
		feeds:         feeds,
		clientFactory: clientFactory,
		clock:         orSystemClock(clock),
	}
}

// hostLimiter serializes requests per host.
type hostLimiter struct {
	mu         sync.Mutex
	semaphores map[string]*semaphore.Weighted
}

func (h *hostLimiter) acquire(ctx context.Context, host string) error {
	h.mu.Lock()
	sem, ok := h.semaphores[host]
	if !ok {
		sem = semaphore.NewWeighted(maxConcurrentPerHost)
		h.semaphores[host] = sem
	}
	h.mu.Unlock()
	return sem.Acquire(ctx, 1)
}

func (h *hostLimiter) release(host string) {
	h.mu.Lock()
	if sem, ok := h.semaphores[host]; ok {
		sem.Release(1)
	}
	h.mu.Unlock()
}

func (s *ingestService) IngestAll(ctx context.Context) (IngestResult, error) {
	result := IngestResult{Feeds: len(s.feeds)}
	if len(s.feeds) == 0 {
		return result, nil
	}

	globalSem := semaphore.NewWeighted(maxConcurrentIngest)
	hosts := &hostLimiter{semaphores: make(map[string]*semaphore.Weighted)}

	var created, failed atomic.Int64
	var wg sync.WaitGroup
	for _, feedURL := range s.feeds {
		feedURL := feedURL
		wg.Add(1)
		go func() {
			defer wg.Done()

			host := network.ExtractHost(feedURL)
			if host != "" {
				if err := hosts.acquire(ctx, host); err != nil {
					failed.Add(1)
					return
				}
				defer hosts.release(host)
			}
			if err := globalSem.Acquire(ctx, 1); err != nil {
				failed.Add(1)
				return
			}
			defer globalSem.Release(1)

			n, err := s.IngestFeed(ctx, feedURL)
			if err != nil {
				failed.Add(1)
				logger.Error("ingest feed failed", "module", "service", "action", "ingest", "resource", "document", "result", "failed", "host", host, "error", err)
				return
			}
			created.Add(int64(n))
		}()
	}
	wg.Wait()

	result.Created = int(created.Load())
	result.Failed = int(failed.Load())
	logger.Info("ingest completed", "module", "service", "action", "ingest", "resource", "document", "result", "ok",
		"feeds", result.Feeds, "failed", result.Failed, "created", result.Created)
	return result, ctx.Err()
}

func (s *ingestService) IngestFeed(ctx context.Context, feedURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", ingestUserAgent)

	resp, err := s.clientFactory.NewHTTPClient(ctx, ingestTimeout).Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("%w: HTTP %d", ErrFeedFetch, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse feed: %w", err)
	}

	source := sanitizer.PlainText(parsed.Title, maxTitleRunes)
	now := s.clock()
	created := 0
	for _, item := range parsed.Items {
		doc, ok := itemToDocument(item, source, now)
		if !ok {
			continue
		}
		isNew, err := s.docs.CreateIfAbsent(ctx, doc)
		if err != nil {
			logger.Warn("save document failed", "module", "service", "action", "save", "resource", "document", "result", "failed", "error", err)
			continue
		}
		if isNew {
			created++
			metrics.IngestedDocuments.Inc()
		}
	}
	if created > 0 {
		logger.Info("feed ingested", "module", "service", "action", "ingest", "resource", "document", "result", "ok", "host", network.ExtractHost(feedURL), "new", created)
	}
	return created, nil
}

// itemToDocument maps a feed item; items without a link or title are dropped.
func itemToDocument(item *gofeed.Item, source string, now time.Time) (model.Document, bool) {
	if item == nil {
		return model.Document{}, false
	}
	link := strings.TrimSpace(item.Link)
	title := sanitizer.PlainText(item.Title, maxTitleRunes)
	if link == "" || title == "" {
		return model.Document{}, false
	}

	hash := hashutil.SHA256Hex(link)
	doc := model.Document{
		Slug:      slugify(title) + "-" + hash[:8],
		Title:     title,
		URL:       &link,
		Hash:      hash,
		CreatedAt: now,
	}
	if source != "" {
		doc.SourceName = &source
	}
	if excerpt := sanitizer.PlainText(item.Description, maxExcerptRunes); excerpt != "" {
		doc.Excerpt = &excerpt
	}
	if summary := sanitizer.PlainText(item.Content, maxSummaryRunes); summary != "" {
		doc.PublicSummary = &summary
	}
	switch {
	case item.PublishedParsed != nil:
		t := item.PublishedParsed.UTC()
		doc.PublishedAt = &t
	case item.UpdatedParsed != nil:
		t := item.UpdatedParsed.UTC()
		doc.PublishedAt = &t
	}
	return doc, true
}

var slugReplacer = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

func slugify(title string) string {
	lower := slugReplacer.Replace(strings.ToLower(title))
	var b strings.Builder
	dash := false
	for _, r := range lower {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(sanitizer.Truncate(b.String(), maxSlugRunes), "-")
	if slug == "" {
		return "dokument"
	}
	return slug
}
