// Package posts implements the post feed query engine: filter, search and
// pagination over the pre-annotated post corpus served by the upstream API.
// Search and listing are mutually exclusive paths - a non-empty trimmed
// search query always takes the search endpoint, which does not support
// category or sentiment filters (a known capability gap, not a bug).
package posts

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/pulseboard/pkg/domain"
	"github.com/umputun/pulseboard/pkg/intel"
)

// DefaultPageSize is the fixed feed page size
const DefaultPageSize = 10

// heuristic total used when the statistics call fails but posts came back,
// pagination turns approximate instead of failing the page
const approxTotalGuess = 100

// Client is the subset of the upstream API the engine needs
type Client interface {
	ListPosts(ctx context.Context, req intel.ListPostsRequest) ([]domain.Post, error)
	SearchPosts(ctx context.Context, req intel.SearchPostsRequest) ([]domain.Post, error)
	PostStats(ctx context.Context) (domain.PostStats, error)
}

// QueryState drives the feed as a pure function of its fields. Owned
// exclusively by the engine, mutated only by explicit user actions.
type QueryState struct {
	Search    string                `json:"search"`
	Category  domain.ProductTag     `json:"category,omitempty"`  // empty means all
	Sentiment domain.SentimentLabel `json:"sentiment,omitempty"` // empty means all
	Page      int                   `json:"page"`
}

// Page is one rendered feed page with its pagination block
type Page struct {
	Posts       []Formatted `json:"posts"`
	TotalPosts  int         `json:"total_posts"`
	TotalPages  int         `json:"total_pages"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	ApproxTotal bool        `json:"approx_total"` // statistics call failed, heuristic total
	Query       QueryState  `json:"query"`
}

// Engine maintains query state and reconciles paginated fetches
type Engine struct {
	client   Client
	pageSize int

	mu      sync.Mutex
	state   QueryState
	current Page
	gen     atomic.Int64 // request generation, stale responses are discarded
}

// NewEngine creates an engine with the fixed default page size
func NewEngine(client Client) *Engine {
	return &Engine{client: client, pageSize: DefaultPageSize, state: QueryState{Page: 1}}
}

// Skip converts a 1-based page number to the upstream skip offset
func Skip(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// TotalPages computes ceil(total/pageSize)
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Fetch executes a single query: exactly one of the search or listing
// endpoints, then the statistics endpoint for pagination. It is a pure
// function of the passed state and touches no engine state.
func (e *Engine) Fetch(ctx context.Context, q QueryState) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	skip := Skip(q.Page, e.pageSize)

	var raw []domain.Post
	var err error
	if trimmed := strings.TrimSpace(q.Search); trimmed != "" {
		// search path, category/sentiment filters are not forwarded
		raw, err = e.client.SearchPosts(ctx, intel.SearchPostsRequest{Query: trimmed, Limit: e.pageSize, Skip: skip})
	} else {
		raw, err = e.client.ListPosts(ctx, intel.ListPostsRequest{
			Limit: e.pageSize, Skip: skip, Category: q.Category, Sentiment: q.Sentiment})
	}
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Posts:    make([]Formatted, len(raw)),
		Page:     q.Page,
		PageSize: e.pageSize,
		Query:    q,
	}
	for i, p := range raw {
		page.Posts[i] = Format(p)
	}

	stats, err := e.client.PostStats(ctx)
	if err != nil {
		lgr.Printf("[WARN] post statistics unavailable, using heuristic total: %v", err)
		page.ApproxTotal = true
		if len(raw) > 0 {
			page.TotalPosts = approxTotalGuess
		}
	} else {
		page.TotalPosts = stats.TotalPosts
	}
	page.TotalPages = TotalPages(page.TotalPosts, e.pageSize)

	return page, nil
}

// apply mutates the query state, dispatches a generation-tagged fetch and
// discards the response if a newer query was issued while it was in flight.
// Last-issued-wins, not last-resolved-wins. Returns whether the response was
// applied.
func (e *Engine) apply(ctx context.Context, mutate func(*QueryState)) (Page, bool, error) {
	e.mu.Lock()
	mutate(&e.state)
	if e.state.Page < 1 {
		e.state.Page = 1
	}
	q := e.state
	gen := e.gen.Add(1)
	e.mu.Unlock()

	page, err := e.Fetch(ctx, q)
	if err != nil {
		return Page{}, false, err
	}

	if e.gen.Load() != gen {
		lgr.Printf("[DEBUG] discarding stale post feed response for page %d", q.Page)
		return e.Current(), false, nil
	}

	e.mu.Lock()
	e.current = page
	e.mu.Unlock()
	return page, true, nil
}

// Search sets the search query and restarts from the first page
func (e *Engine) Search(ctx context.Context, query string) (Page, bool, error) {
	return e.apply(ctx, func(q *QueryState) { q.Search = query; q.Page = 1 })
}

// FilterCategory sets the category filter and restarts from the first page
func (e *Engine) FilterCategory(ctx context.Context, category domain.ProductTag) (Page, bool, error) {
	return e.apply(ctx, func(q *QueryState) { q.Category = category; q.Page = 1 })
}

// FilterSentiment sets the sentiment filter and restarts from the first page
func (e *Engine) FilterSentiment(ctx context.Context, sentiment domain.SentimentLabel) (Page, bool, error) {
	return e.apply(ctx, func(q *QueryState) { q.Sentiment = sentiment; q.Page = 1 })
}

// GoToPage moves to the given page keeping filters and search intact
func (e *Engine) GoToPage(ctx context.Context, page int) (Page, bool, error) {
	return e.apply(ctx, func(q *QueryState) { q.Page = page })
}

// Current returns the last applied page
func (e *Engine) Current() Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// State returns a copy of the current query state
func (e *Engine) State() QueryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
