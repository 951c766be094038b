// Package roadmap partitions platform roadmap snapshots by release status and
// composes deterministic narrative summaries. Free-text feature status is
// classified once at the ingestion boundary into a closed state enum, the
// summarization logic itself never touches raw upstream text.
package roadmap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/umputun/pulseboard/pkg/domain"
)

const (
	maxHighlightProducts = 3 // product groups shown in a released summary
	maxTitlesPerProduct  = 2
	maxThemes            = 3
)

// themeTriggers are scanned in descriptions as case-insensitive substrings.
// Matched themes keep scan order, i.e. the order the trigger first appears
// in the text, not the order of this table.
var themeTriggers = []struct {
	keyword string
	label   string
}{
	{"ai", "AI capabilities"},
	{"security", "Security enhancements"},
	{"integration", "Integration expansion"},
	{"performance", "Performance optimization"},
	{"automation", "Automation features"},
}

// Summarizer computes the four per-platform summary strings
type Summarizer struct {
	recencyFilter bool
	recencyWindow time.Duration
	now           func() time.Time
}

// Option configures a Summarizer
type Option func(*Summarizer)

// WithRecencyFilter enables quarter-based filtering: features whose target
// quarter is further than window from now are excluded before summarization.
// Features with unparseable quarters are kept.
func WithRecencyFilter(window time.Duration) Option {
	return func(s *Summarizer) {
		s.recencyFilter = true
		s.recencyWindow = window
	}
}

// NewSummarizer creates a summarizer, by default without recency filtering
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClassifyStatus maps free-text status to the closed release state enum.
// Matching is case-insensitive substring. Text matching neither predicate is
// uncategorized, which excludes the feature from both partitions.
func ClassifyStatus(status string) domain.ReleaseState {
	lower := strings.ToLower(status)
	if strings.Contains(lower, "released") || strings.Contains(lower, "available") {
		return domain.StateReleased
	}
	if strings.Contains(lower, "development") || strings.Contains(lower, "planned") || strings.Contains(lower, "upcoming") {
		return domain.StateUpcoming
	}
	return domain.StateUncategorized
}

// Summarize computes all four summary strings from the two snapshots. Pure:
// re-running on unchanged snapshots yields byte-identical output. The two
// platforms are never aggregated.
func (s *Summarizer) Summarize(cloud, datacenter domain.RoadmapSnapshot) domain.RoadmapSummary {
	cloudReleased, cloudUpcoming := s.partition(cloud.Features)
	dcReleased, dcUpcoming := s.partition(datacenter.Features)

	return domain.RoadmapSummary{
		Released: domain.PlatformSummaries{
			Cloud:      releasedSummary(domain.PlatformCloud.DisplayName(), cloudReleased),
			DataCenter: releasedSummary(domain.PlatformDataCenter.DisplayName(), dcReleased),
		},
		Upcoming: domain.PlatformSummaries{
			Cloud:      upcomingSummary(domain.PlatformCloud.DisplayName(), cloudUpcoming),
			DataCenter: upcomingSummary(domain.PlatformDataCenter.DisplayName(), dcUpcoming),
		},
	}
}

// partition splits features into released and upcoming sets, silently
// dropping uncategorized ones, and applies the recency filter when enabled
func (s *Summarizer) partition(features []domain.RoadmapFeature) (released, upcoming []domain.RoadmapFeature) {
	for _, f := range features {
		if s.recencyFilter && !s.withinWindow(f.Quarter) {
			continue
		}
		switch ClassifyStatus(f.Status) {
		case domain.StateReleased:
			released = append(released, f)
		case domain.StateUpcoming:
			upcoming = append(upcoming, f)
		}
	}
	return released, upcoming
}

func (s *Summarizer) withinWindow(quarter string) bool {
	target, err := ParseQuarter(quarter)
	if err != nil {
		return true // unparseable quarters are kept
	}
	diff := target.Sub(s.now())
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.recencyWindow
}

// releasedSummary composes the templated summary for a released partition
func releasedSummary(platform string, released []domain.RoadmapFeature) string {
	if len(released) == 0 {
		return fmt.Sprintf("No major releases for %s in this period.", platform)
	}

	// group titles by product tag in first-seen order, a feature with N
	// products contributes its title to N groups
	order := []domain.ProductTag{}
	titles := map[domain.ProductTag][]string{}
	for _, f := range released {
		for _, p := range f.Products {
			if _, seen := titles[p]; !seen {
				order = append(order, p)
			}
			titles[p] = append(titles[p], f.Title)
		}
	}

	if len(order) > maxHighlightProducts {
		order = order[:maxHighlightProducts]
	}

	fragments := make([]string, 0, len(order))
	for _, p := range order {
		ts := titles[p]
		if len(ts) > maxTitlesPerProduct {
			ts = ts[:maxTitlesPerProduct]
		}
		fragments = append(fragments, fmt.Sprintf("%s: %s", strings.ToUpper(string(p)), strings.Join(ts, ", ")))
	}

	return fmt.Sprintf("%d features released for %s recently. Highlights - %s. Releases continue to focus on automation, security and integration.",
		len(released), platform, strings.Join(fragments, "; "))
}

// upcomingSummary composes the templated summary for an upcoming partition
func upcomingSummary(platform string, upcoming []domain.RoadmapFeature) string {
	if len(upcoming) == 0 {
		return fmt.Sprintf("No major features announced for %s yet.", platform)
	}

	themes := []string{}
	seen := map[string]bool{}
	for _, f := range upcoming {
		for _, label := range ThemesFromText(f.Description) {
			if !seen[label] {
				seen[label] = true
				themes = append(themes, label)
			}
		}
	}

	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	themeList := "Platform improvements"
	if len(themes) > 0 {
		themeList = strings.Join(themes, ", ")
	}

	return fmt.Sprintf("%d features in development for %s. Coming up - %s. Expect steady investment across the platform.",
		len(upcoming), platform, themeList)
}

// ThemesFromText extracts theme labels from free text via case-insensitive
// substring matching. Labels are ordered by first occurrence in the text.
func ThemesFromText(text string) []string {
	lower := strings.ToLower(text)

	type hit struct {
		pos   int
		label string
	}
	hits := []hit{}
	for _, t := range themeTriggers {
		if pos := strings.Index(lower, t.keyword); pos >= 0 {
			hits = append(hits, hit{pos: pos, label: t.label})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	labels := make([]string, len(hits))
	for i, h := range hits {
		labels[i] = h.label
	}
	return labels
}
