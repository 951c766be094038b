// Package server exposes the classified dashboard views over HTTP. It is a
// thin orchestration layer: the four analysis modules are invoked
// independently, each owns its loading and error state, and one module's
// failure never blocks another's rendering.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/pulseboard/pkg/discovery"
	"github.com/umputun/pulseboard/pkg/domain"
	"github.com/umputun/pulseboard/pkg/issues"
	"github.com/umputun/pulseboard/pkg/posts"
)

// DiscoveryRanker classifies community discoveries
type DiscoveryRanker interface {
	Rank(ctx context.Context) discovery.Result
}

// IssueClassifier classifies critical issues for a time window
type IssueClassifier interface {
	Classify(ctx context.Context, days int) (issues.Result, error)
}

// RoadmapSummarizer produces the four platform summaries
type RoadmapSummarizer interface {
	Summary(ctx context.Context) (domain.RoadmapSummary, error)
}

// PostFeed executes post feed queries
type PostFeed interface {
	Fetch(ctx context.Context, q posts.QueryState) (posts.Page, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Server represents HTTP server instance
type Server struct {
	config      ConfigProvider
	discoveries DiscoveryRanker
	issues      IssueClassifier
	roadmap     RoadmapSummarizer
	postFeed    PostFeed
	version     string
	debug       bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance
func New(cfg ConfigProvider, discoveries DiscoveryRanker, issueClassifier IssueClassifier,
	roadmap RoadmapSummarizer, postFeed PostFeed, version string, debug bool) *Server {
	s := &Server{
		config:      cfg,
		discoveries: discoveries,
		issues:      issueClassifier,
		roadmap:     roadmap,
		postFeed:    postFeed,
		version:     version,
		debug:       debug,
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("pulseboard", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /dashboard", s.dashboardHandler)
		r.HandleFunc("GET /discoveries", s.discoveriesHandler)
		r.HandleFunc("GET /issues", s.issuesHandler)
		r.HandleFunc("GET /roadmap/summary", s.roadmapSummaryHandler)
		r.HandleFunc("GET /posts", s.postsHandler)
	})
}
