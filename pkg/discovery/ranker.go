// Package discovery classifies community-submitted discoveries for display:
// technical level, engagement potential and discovery type. The ranker is
// stateless between invocations and never re-sorts, upstream insertion order
// is the display order.
package discovery

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/pulseboard/pkg/domain"
)

// Fetcher retrieves raw discoveries from the upstream intelligence API
type Fetcher interface {
	Discoveries(ctx context.Context) ([]domain.Discovery, error)
}

// Supplementer provides additional locally-ingested discoveries, appended
// after the upstream set. Optional.
type Supplementer interface {
	Supplements() []domain.Discovery
}

// Ranker classifies discoveries for the dashboard
type Ranker struct {
	fetcher    Fetcher
	supplement Supplementer
}

// Ranked is a discovery with display classification attached
type Ranked struct {
	domain.Discovery
	LevelIcon string `json:"level_icon"`
	Badge     string `json:"badge,omitempty"`
	TypeLabel string `json:"type_label"`
}

// Result is the tagged outcome of a ranking run. Status distinguishes live
// data, fallback data after an upstream failure and a genuine empty set.
type Result struct {
	Status      domain.OutcomeStatus `json:"status"`
	Reason      string               `json:"reason,omitempty"`
	Discoveries []Ranked             `json:"discoveries"`
}

// NewRanker creates a ranker. supplement may be nil.
func NewRanker(fetcher Fetcher, supplement Supplementer) *Ranker {
	return &Ranker{fetcher: fetcher, supplement: supplement}
}

// Rank fetches and classifies discoveries. On fetch failure it substitutes a
// fixed fallback set so the dashboard never shows a false "no discoveries"
// state on a transient network failure.
func (r *Ranker) Rank(ctx context.Context) Result {
	raw, err := r.fetcher.Discoveries(ctx)
	if err != nil {
		lgr.Printf("[WARN] discoveries unavailable, serving fallback set: %v", err)
		return Result{
			Status:      domain.OutcomeDegraded,
			Reason:      "community discoveries temporarily unavailable",
			Discoveries: classify(fallbackDiscoveries()),
		}
	}

	if r.supplement != nil {
		raw = append(raw, r.supplement.Supplements()...)
	}

	if len(raw) == 0 {
		return Result{Status: domain.OutcomeEmpty, Discoveries: []Ranked{}}
	}
	return Result{Status: domain.OutcomeOK, Discoveries: classify(raw)}
}

func classify(discoveries []domain.Discovery) []Ranked {
	ranked := make([]Ranked, len(discoveries))
	for i, d := range discoveries {
		ranked[i] = Ranked{
			Discovery: d,
			LevelIcon: TechnicalLevelIcon(d.TechnicalLevel),
			Badge:     EngagementBadge(d.EngagementPotential),
			TypeLabel: TypeLabel(d.DiscoveryType),
		}
	}
	return ranked
}

// TechnicalLevelIcon maps a technical level to its display icon. Total over
// the known levels, any unrecognized value gets the basic icon.
func TechnicalLevelIcon(level domain.TechnicalLevel) string {
	switch level {
	case domain.LevelIntermediate:
		return "🛠️"
	case domain.LevelAdvanced:
		return "⚡"
	case domain.LevelExpert:
		return "🏆"
	default: // basic and anything unknown
		return "🌱"
	}
}

// EngagementBadge returns the distinguishing badge for high-engagement
// discoveries, empty for everything else
func EngagementBadge(potential domain.EngagementPotential) string {
	if potential == domain.EngagementHigh {
		return "🔥 High Engagement"
	}
	return ""
}

// TypeLabel maps a discovery type to its display label
func TypeLabel(dt domain.DiscoveryType) string {
	switch dt {
	case domain.DiscoveryUseCase:
		return "Use Case"
	case domain.DiscoveryIntegration:
		return "Integration"
	case domain.DiscoveryAutomation:
		return "Automation"
	case domain.DiscoverySuccessStory:
		return "Success Story"
	default:
		return "Community Story"
	}
}

// fallbackDiscoveries returns the fixed degraded-state dataset. Deliberately
// non-empty, an empty list would be indistinguishable from a real zero-result
// state.
func fallbackDiscoveries() []domain.Discovery {
	return []domain.Discovery{
		{
			Title:               "Automating release notes across three product teams",
			Summary:             "A community member wired the tracker's automation rules to the wiki to publish release notes without manual copying.",
			Author:              "community-team",
			URL:                 "https://community.example.com/discoveries/release-notes-automation",
			ProductsUsed:        []domain.ProductTag{domain.ProductTracker, domain.ProductWiki},
			TechnicalLevel:      domain.LevelAdvanced,
			HasScreenshots:      true,
			EngagementPotential: domain.EngagementHigh,
			DiscoveryType:       domain.DiscoveryAutomation,
		},
		{
			Title:               "Service desk portal as a student helpdesk",
			Summary:             "A university runs its entire student helpdesk on the service-management portal with custom request types.",
			Author:              "community-team",
			URL:                 "https://community.example.com/discoveries/student-helpdesk",
			ProductsUsed:        []domain.ProductTag{domain.ProductServiceDesk},
			TechnicalLevel:      domain.LevelBasic,
			HasScreenshots:      false,
			EngagementPotential: domain.EngagementNormal,
			DiscoveryType:       domain.DiscoveryUseCase,
		},
		{
			Title:               "Wiki-driven onboarding that cut ramp-up time in half",
			Summary:             "Structured onboarding spaces with embedded tracker boards, shared as a reusable template.",
			Author:              "community-team",
			URL:                 "https://community.example.com/discoveries/onboarding-template",
			ProductsUsed:        []domain.ProductTag{domain.ProductWiki, domain.ProductTracker},
			TechnicalLevel:      domain.LevelIntermediate,
			HasScreenshots:      true,
			EngagementPotential: domain.EngagementNormal,
			DiscoveryType:       domain.DiscoverySuccessStory,
		},
	}
}
