// Package intel implements the HTTP client for the upstream
// community-intelligence API. All list payloads are defensively normalized:
// a malformed or non-array response is treated as an empty result set, never
// as a crash, so one bad upstream deploy can't take the dashboard down.
package intel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/pulseboard/pkg/domain"
)

// ErrUpstreamStatus indicates a non-retryable upstream response, i.e. any 4xx
var ErrUpstreamStatus = errors.New("upstream rejected request")

// Client talks to the collaborator-owned intelligence API
type Client struct {
	baseURL string
	client  *http.Client
	retrier *repeater.Repeater
}

// ListPostsRequest holds parameters for the post listing endpoint
type ListPostsRequest struct {
	Limit     int
	Skip      int
	Category  domain.ProductTag // empty means all
	Sentiment domain.SentimentLabel
}

// SearchPostsRequest holds parameters for the post search endpoint.
// Category and sentiment filters are intentionally absent, the search
// path does not support them.
type SearchPostsRequest struct {
	Query string
	Limit int
	Skip  int
}

// New creates an intelligence API client. Transient failures are retried
// with backoff up to attempts times before surfacing to the caller.
func New(baseURL string, timeout time.Duration, attempts int) *Client {
	if attempts <= 0 {
		attempts = 3
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retrier: repeater.NewBackoff(attempts, 100*time.Millisecond, repeater.WithMaxDelay(2*time.Second)),
	}
}

// Discoveries fetches community discoveries
func (c *Client) Discoveries(ctx context.Context) ([]domain.Discovery, error) {
	data, err := c.get(ctx, "/api/business-intelligence/awesome-discoveries", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch discoveries: %w", err)
	}

	var discoveries []domain.Discovery
	if err := json.Unmarshal(data, &discoveries); err != nil {
		lgr.Printf("[WARN] malformed discoveries payload, treating as empty: %v", err)
		return []domain.Discovery{}, nil
	}
	return discoveries, nil
}

// CriticalIssues fetches issues for the given time window in days. The window
// is forwarded verbatim, no client-side date refiltering happens here or in
// any caller.
func (c *Client) CriticalIssues(ctx context.Context, days int) ([]domain.CriticalIssue, error) {
	params := url.Values{"days": []string{strconv.Itoa(days)}}
	data, err := c.get(ctx, "/api/business-intelligence/critical-issues", params)
	if err != nil {
		return nil, fmt.Errorf("fetch critical issues: %w", err)
	}

	var issues []domain.CriticalIssue
	if err := json.Unmarshal(data, &issues); err != nil {
		lgr.Printf("[WARN] malformed issues payload, treating as empty: %v", err)
		return []domain.CriticalIssue{}, nil
	}
	return issues, nil
}

// Roadmap fetches one platform's roadmap snapshot
func (c *Client) Roadmap(ctx context.Context, platform domain.Platform) (domain.RoadmapSnapshot, error) {
	path := "/api/roadmap/cloud"
	if platform == domain.PlatformDataCenter {
		path = "/api/roadmap/data-center"
	}

	data, err := c.get(ctx, path, nil)
	if err != nil {
		return domain.RoadmapSnapshot{}, fmt.Errorf("fetch %s roadmap: %w", platform, err)
	}

	var snapshot domain.RoadmapSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		lgr.Printf("[WARN] malformed %s roadmap payload, treating as empty: %v", platform, err)
		return domain.RoadmapSnapshot{Platform: platform}, nil
	}
	if snapshot.Platform == "" {
		snapshot.Platform = platform
	}
	return snapshot, nil
}

// ListPosts fetches a page of posts with optional category and sentiment filters
func (c *Client) ListPosts(ctx context.Context, req ListPostsRequest) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("skip", strconv.Itoa(req.Skip))
	if req.Category != "" {
		params.Set("category", string(req.Category))
	}
	if req.Sentiment != "" {
		params.Set("sentiment", string(req.Sentiment))
	}

	data, err := c.get(ctx, "/api/posts", params)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return c.decodePosts(data), nil
}

// SearchPosts fetches a page of posts matching a search query
func (c *Client) SearchPosts(ctx context.Context, req SearchPostsRequest) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("skip", strconv.Itoa(req.Skip))

	data, err := c.get(ctx, "/api/posts/search", params)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return c.decodePosts(data), nil
}

// PostStats fetches aggregate post statistics. Unlike the list endpoints a
// malformed payload is reported as an error, callers fall back to a
// heuristic total on any stats failure.
func (c *Client) PostStats(ctx context.Context) (domain.PostStats, error) {
	data, err := c.get(ctx, "/api/posts/stats", nil)
	if err != nil {
		return domain.PostStats{}, fmt.Errorf("fetch post stats: %w", err)
	}

	var stats domain.PostStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.PostStats{}, fmt.Errorf("decode post stats: %w", err)
	}
	return stats, nil
}

func (c *Client) decodePosts(data []byte) []domain.Post {
	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		lgr.Printf("[WARN] malformed posts payload, treating as empty: %v", err)
		return []domain.Post{}
	}
	return posts
}

// get performs a GET with retries. Network errors and 5xx responses are
// retried, 4xx responses terminate immediately via ErrUpstreamStatus.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body []byte
	err := c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return fmt.Errorf("%w: create request: %v", ErrUpstreamStatus, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", reqURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
			return fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, path, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned %d", path, resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response from %s: %w", path, err)
		}
		return nil
	}, ErrUpstreamStatus)

	if err != nil {
		return nil, err
	}
	return body, nil
}
