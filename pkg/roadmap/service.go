package roadmap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/umputun/pulseboard/pkg/domain"
)

// Fetcher retrieves one platform's roadmap snapshot
type Fetcher interface {
	Roadmap(ctx context.Context, platform domain.Platform) (domain.RoadmapSnapshot, error)
}

// Service fetches both platform snapshots and summarizes them. The two
// fetches run concurrently and the summarizer waits for both, if either
// fails no summary is produced at all - a real platform is never mixed with
// an absent one.
type Service struct {
	fetcher    Fetcher
	summarizer *Summarizer
}

// NewService creates a roadmap service
func NewService(fetcher Fetcher, summarizer *Summarizer) *Service {
	return &Service{fetcher: fetcher, summarizer: summarizer}
}

// Summary fetches cloud and data-center snapshots concurrently and computes
// the combined summary
func (s *Service) Summary(ctx context.Context) (domain.RoadmapSummary, error) {
	var cloud, datacenter domain.RoadmapSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cloud, err = s.fetcher.Roadmap(gctx, domain.PlatformCloud)
		return err
	})
	g.Go(func() error {
		var err error
		datacenter, err = s.fetcher.Roadmap(gctx, domain.PlatformDataCenter)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.RoadmapSummary{}, fmt.Errorf("roadmap snapshot unavailable: %w", err)
	}

	return s.summarizer.Summarize(cloud, datacenter), nil
}
