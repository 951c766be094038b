// Package writeups ingests notable community write-ups directly from
// configured RSS/Atom feeds and turns them into supplementary discovery
// records. Everything is held in memory only, the dashboard keeps no
// persistent storage of its own.
package writeups

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/pulseboard/pkg/domain"
	"github.com/umputun/pulseboard/pkg/roadmap"
)

const summaryMaxLen = 280

// Extractor pulls article text from a write-up URL
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Config holds watcher settings
type Config struct {
	Feeds         []string
	Interval      time.Duration
	MaxConcurrent int
	MaxPerFeed    int
	MinTextLength int
}

// Watcher polls community blog feeds and keeps the latest batch of
// supplementary discoveries in memory
type Watcher struct {
	parser    *gofeed.Parser
	extractor Extractor
	cfg       Config
	strip     *bluemonday.Policy

	mu          sync.RWMutex
	supplements []domain.Discovery
}

// NewWatcher creates a watcher. extractor may be nil, in which case only
// feed-provided descriptions are used for summaries.
func NewWatcher(cfg Config, extractor Extractor) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = 3
	}
	if cfg.MaxPerFeed == 0 {
		cfg.MaxPerFeed = 5
	}
	return &Watcher{
		parser:    gofeed.NewParser(),
		extractor: extractor,
		cfg:       cfg,
		strip:     bluemonday.StrictPolicy(),
	}
}

// Run polls the configured feeds until the context is canceled. The first
// refresh happens immediately.
func (w *Watcher) Run(ctx context.Context) {
	lgr.Printf("[INFO] write-up watcher started, %d feeds, interval %v", len(w.cfg.Feeds), w.cfg.Interval)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] write-up watcher stopped")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh fetches all feeds once and replaces the in-memory supplement set.
// Individual feed failures degrade to fewer supplements, never to an error.
func (w *Watcher) Refresh(ctx context.Context) {
	perFeed := make([][]domain.Discovery, len(w.cfg.Feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.MaxConcurrent)
	for i, feedURL := range w.cfg.Feeds {
		g.Go(func() error {
			discoveries, err := w.processFeed(gctx, feedURL)
			if err != nil {
				lgr.Printf("[WARN] failed to process write-up feed %s: %v", feedURL, err)
				return nil // a single bad feed never fails the batch
			}
			perFeed[i] = discoveries
			return nil
		})
	}
	_ = g.Wait()

	collected := []domain.Discovery{}
	for _, batch := range perFeed {
		collected = append(collected, batch...)
	}

	w.mu.Lock()
	w.supplements = collected
	w.mu.Unlock()

	lgr.Printf("[INFO] write-up watcher collected %d supplements", len(collected))
}

// Supplements returns a copy of the current supplementary discoveries
func (w *Watcher) Supplements() []domain.Discovery {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]domain.Discovery, len(w.supplements))
	copy(out, w.supplements)
	return out
}

func (w *Watcher) processFeed(ctx context.Context, feedURL string) ([]domain.Discovery, error) {
	feed, err := w.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if len(items) > w.cfg.MaxPerFeed {
		items = items[:w.cfg.MaxPerFeed]
	}

	discoveries := make([]domain.Discovery, 0, len(items))
	for _, item := range items {
		discoveries = append(discoveries, w.toDiscovery(ctx, item))
	}
	return discoveries, nil
}

// toDiscovery converts a feed entry into a supplementary discovery. The
// summary comes from the extracted article text when available, falling back
// to the sanitized feed description.
func (w *Watcher) toDiscovery(ctx context.Context, item *gofeed.Item) domain.Discovery {
	summary := strings.TrimSpace(w.strip.Sanitize(item.Description))
	text := summary

	if w.extractor != nil && item.Link != "" {
		extracted, err := w.extractor.Extract(ctx, item.Link)
		switch {
		case err != nil:
			lgr.Printf("[DEBUG] extraction failed for %s, keeping feed description: %v", item.Link, err)
		case len(extracted) < w.cfg.MinTextLength:
			lgr.Printf("[DEBUG] extracted text too short for %s, keeping feed description", item.Link)
		default:
			text = extracted
			summary = LeadSummary(extracted, summaryMaxLen)
		}
	}

	author := ""
	if item.Author != nil {
		author = item.Author.Name
	}

	return domain.Discovery{
		Title:               item.Title,
		Summary:             summary,
		Author:              author,
		URL:                 item.Link,
		ProductsUsed:        productsFromText(text),
		TechnicalLevel:      domain.LevelIntermediate,
		EngagementPotential: domain.EngagementNormal,
		DiscoveryType:       typeFromThemes(text),
	}
}

// typeFromThemes classifies a write-up by the first theme the roadmap
// keyword scanner finds in its text
func typeFromThemes(text string) domain.DiscoveryType {
	for _, theme := range roadmap.ThemesFromText(text) {
		switch theme {
		case "Automation features":
			return domain.DiscoveryAutomation
		case "Integration expansion":
			return domain.DiscoveryIntegration
		}
	}
	return domain.DiscoveryOther
}

// productsFromText tags a write-up with product lines mentioned in its text,
// same substring approach the roadmap theme scanner uses
func productsFromText(text string) []domain.ProductTag {
	lower := strings.ToLower(text)
	tags := []domain.ProductTag{}
	if strings.Contains(lower, "tracker") || strings.Contains(lower, "board") {
		tags = append(tags, domain.ProductTracker)
	}
	if strings.Contains(lower, "service desk") || strings.Contains(lower, "service management") {
		tags = append(tags, domain.ProductServiceDesk)
	}
	if strings.Contains(lower, "wiki") || strings.Contains(lower, "knowledge base") {
		tags = append(tags, domain.ProductWiki)
	}
	return tags
}
