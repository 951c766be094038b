package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/umputun/pulseboard/pkg/discovery"
	"github.com/umputun/pulseboard/pkg/domain"
	"github.com/umputun/pulseboard/pkg/issues"
	"github.com/umputun/pulseboard/pkg/posts"
)

const defaultIssueWindow = 7 // days, used by the combined dashboard view

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// discoveriesHandler returns the ranked discovery view. Rank never fails, a
// fetch failure degrades to the fallback dataset inside the result.
func (s *Server) discoveriesHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.discoveries.Rank(r.Context()))
}

// issuesHandler returns classified issues for the requested window
func (s *Server) issuesHandler(w http.ResponseWriter, r *http.Request) {
	days := defaultIssueWindow
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil {
			renderError(w, r, fmt.Errorf("invalid days parameter"), http.StatusBadRequest)
			return
		}
		days = parsed
	}

	result, err := s.issues.Classify(r.Context(), days)
	if err != nil {
		if errors.Is(err, issues.ErrInvalidWindow) {
			renderError(w, r, err, http.StatusBadRequest)
			return
		}
		log.Printf("[ERROR] failed to classify issues: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, result)
}

// roadmapSummaryHandler returns the four platform summaries. A missing
// platform snapshot withholds the whole summary, a real platform is never
// mixed with an absent one.
func (s *Server) roadmapSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.roadmap.Summary(r.Context())
	if err != nil {
		log.Printf("[WARN] roadmap summary unavailable: %v", err)
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	renderJSON(w, r, http.StatusOK, summary)
}

// postsHandler returns one page of the post feed
func (s *Server) postsHandler(w http.ResponseWriter, r *http.Request) {
	q := posts.QueryState{
		Search:    r.URL.Query().Get("search"),
		Category:  domain.ProductTag(r.URL.Query().Get("category")),
		Sentiment: domain.SentimentLabel(r.URL.Query().Get("sentiment")),
		Page:      1,
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			q.Page = page
		}
	}

	page, err := s.postFeed.Fetch(r.Context(), q)
	if err != nil {
		log.Printf("[ERROR] failed to fetch post feed: %v", err)
		renderError(w, r, err, http.StatusBadGateway)
		return
	}
	renderJSON(w, r, http.StatusOK, page)
}

// dashboardResponse carries all four panel states. Each section is
// independent, a failed one reports its error next to the others' data.
type dashboardResponse struct {
	Discoveries  *discovery.Result      `json:"discoveries,omitempty"`
	Issues       *issues.Result         `json:"issues,omitempty"`
	IssuesError  string                 `json:"issues_error,omitempty"`
	Roadmap      *domain.RoadmapSummary `json:"roadmap,omitempty"`
	RoadmapError string                 `json:"roadmap_error,omitempty"`
	Posts        *posts.Page            `json:"posts,omitempty"`
	PostsError   string                 `json:"posts_error,omitempty"`
}

// dashboardHandler loads all four panels concurrently with no ordering
// guarantee or shared state between them
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp dashboardResponse

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		result := s.discoveries.Rank(ctx)
		resp.Discoveries = &result
	}()

	go func() {
		defer wg.Done()
		result, err := s.issues.Classify(ctx, defaultIssueWindow)
		if err != nil {
			resp.IssuesError = err.Error()
			return
		}
		resp.Issues = &result
	}()

	go func() {
		defer wg.Done()
		summary, err := s.roadmap.Summary(ctx)
		if err != nil {
			resp.RoadmapError = "roadmap summary unavailable"
			return
		}
		resp.Roadmap = &summary
	}()

	go func() {
		defer wg.Done()
		page, err := s.postFeed.Fetch(ctx, posts.QueryState{Page: 1})
		if err != nil {
			resp.PostsError = "post feed unavailable"
			return
		}
		resp.Posts = &page
	}()

	wg.Wait()
	renderJSON(w, r, http.StatusOK, resp)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
