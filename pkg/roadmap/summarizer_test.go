package roadmap

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/pulseboard/pkg/domain"
)

func TestClassifyStatus(t *testing.T) {
	t.Run("released predicates", func(t *testing.T) {
		assert.Equal(t, domain.StateReleased, ClassifyStatus("Released"))
		assert.Equal(t, domain.StateReleased, ClassifyStatus("now AVAILABLE to all customers"))
		assert.Equal(t, domain.StateReleased, ClassifyStatus("released in 10.3"))
	})

	t.Run("upcoming predicates", func(t *testing.T) {
		assert.Equal(t, domain.StateUpcoming, ClassifyStatus("In Development"))
		assert.Equal(t, domain.StateUpcoming, ClassifyStatus("Planned"))
		assert.Equal(t, domain.StateUpcoming, ClassifyStatus("UPCOMING"))
	})

	t.Run("neither predicate is uncategorized", func(t *testing.T) {
		assert.Equal(t, domain.StateUncategorized, ClassifyStatus("under review"))
		assert.Equal(t, domain.StateUncategorized, ClassifyStatus(""))
		assert.Equal(t, domain.StateUncategorized, ClassifyStatus("cancelled"))
	})
}

func TestSummarizer_ReleasedSummary(t *testing.T) {
	t.Run("empty partition names the platform", func(t *testing.T) {
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)
		assert.Equal(t, "No major releases for Cloud in this period.", summary.Released.Cloud)
		assert.Equal(t, "No major releases for Data Center in this period.", summary.Released.DataCenter)
	})

	t.Run("count matches partition size", func(t *testing.T) {
		features := []domain.RoadmapFeature{
			{Title: "A", Status: "released", Products: []domain.ProductTag{domain.ProductTracker}},
			{Title: "B", Status: "available", Products: []domain.ProductTag{domain.ProductTracker}},
			{Title: "C", Status: "released", Products: []domain.ProductTag{domain.ProductWiki}},
			{Title: "D", Status: "under review"}, // uncategorized, excluded
		}
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)
		assert.Contains(t, summary.Released.Cloud, "3 features released for Cloud")
	})

	t.Run("groups by product in first-seen order with caps", func(t *testing.T) {
		features := []domain.RoadmapFeature{
			{Title: "A", Status: "released", Products: []domain.ProductTag{domain.ProductTracker, domain.ProductWiki}},
			{Title: "B", Status: "released", Products: []domain.ProductTag{domain.ProductTracker}},
			{Title: "C", Status: "released", Products: []domain.ProductTag{domain.ProductTracker}},
			{Title: "D", Status: "released", Products: []domain.ProductTag{domain.ProductServiceDesk}},
			{Title: "E", Status: "released", Products: []domain.ProductTag{"marketplace"}}, // 4th group, dropped
		}
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)

		// a feature with N products contributes its title to N groups,
		// at most 2 titles per product and 3 products total
		assert.Contains(t, summary.Released.Cloud, "Highlights - TRACKER: A, B; WIKI: A; SERVICE-DESK: D.")
		assert.NotContains(t, summary.Released.Cloud, "MARKETPLACE")
	})
}

func TestSummarizer_UpcomingSummary(t *testing.T) {
	t.Run("empty partition names the platform", func(t *testing.T) {
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)
		assert.Equal(t, "No major features announced for Cloud yet.", summary.Upcoming.Cloud)
		assert.Equal(t, "No major features announced for Data Center yet.", summary.Upcoming.DataCenter)
	})

	t.Run("themes follow scan order in the text", func(t *testing.T) {
		features := []domain.RoadmapFeature{
			{Title: "X", Status: "in development", Description: "Adds AI-driven automation with better performance"},
		}
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)

		// order is the position of the trigger in the text, not the trigger table order
		assert.Contains(t, summary.Upcoming.Cloud, "AI capabilities, Automation features, Performance optimization")
		assert.Contains(t, summary.Upcoming.Cloud, "1 features in development for Cloud")
	})

	t.Run("themes deduplicated across features", func(t *testing.T) {
		features := []domain.RoadmapFeature{
			{Title: "X", Status: "planned", Description: "security hardening"},
			{Title: "Y", Status: "planned", Description: "more security work"},
			{Title: "Z", Status: "planned", Description: "integration hub"},
		}
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)
		assert.Contains(t, summary.Upcoming.Cloud, "Security enhancements, Integration expansion")
	})

	t.Run("no matched theme falls back to platform improvements", func(t *testing.T) {
		features := []domain.RoadmapFeature{
			{Title: "X", Status: "planned", Description: "misc polish"},
		}
		s := NewSummarizer()
		summary := s.Summarize(
			domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
			domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
		)
		assert.Contains(t, summary.Upcoming.Cloud, "Platform improvements")
	})
}

func TestSummarizer_Idempotent(t *testing.T) {
	cloud := domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: []domain.RoadmapFeature{
		{Title: "A", Status: "released", Products: []domain.ProductTag{domain.ProductTracker}},
		{Title: "B", Status: "planned", Description: "ai and security improvements"},
	}}
	dc := domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter, Features: []domain.RoadmapFeature{
		{Title: "C", Status: "available", Products: []domain.ProductTag{domain.ProductWiki}},
	}}

	s := NewSummarizer()
	first := s.Summarize(cloud, dc)
	second := s.Summarize(cloud, dc)
	assert.Equal(t, first, second, "unchanged snapshots must yield byte-identical summaries")
}

func TestSummarizer_RecencyFilter(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	s := NewSummarizer(WithRecencyFilter(90 * 24 * time.Hour))
	s.now = func() time.Time { return now }

	features := []domain.RoadmapFeature{
		{Title: "Near", Status: "released", Quarter: "Q1 2025", Products: []domain.ProductTag{domain.ProductTracker}}, // 2025-01-01, within window
		{Title: "Far", Status: "released", Quarter: "Q4 2026", Products: []domain.ProductTag{domain.ProductTracker}}, // far outside window
		{Title: "Odd", Status: "released", Quarter: "sometime", Products: []domain.ProductTag{domain.ProductWiki}},   // unparseable, kept
	}
	summary := s.Summarize(
		domain.RoadmapSnapshot{Platform: domain.PlatformCloud, Features: features},
		domain.RoadmapSnapshot{Platform: domain.PlatformDataCenter},
	)

	assert.Contains(t, summary.Released.Cloud, "2 features released")
	assert.Contains(t, summary.Released.Cloud, "Near")
	assert.Contains(t, summary.Released.Cloud, "Odd")
	assert.NotContains(t, summary.Released.Cloud, "Far")
}

func TestThemesFromText(t *testing.T) {
	t.Run("scan order", func(t *testing.T) {
		themes := ThemesFromText("Adds AI-driven automation with better performance")
		assert.Equal(t, []string{"AI capabilities", "Automation features", "Performance optimization"}, themes)
	})

	t.Run("case insensitive", func(t *testing.T) {
		themes := ThemesFromText("SECURITY and Integration")
		assert.Equal(t, []string{"Security enhancements", "Integration expansion"}, themes)
	})

	t.Run("no triggers", func(t *testing.T) {
		assert.Empty(t, ThemesFromText("general polish"))
	})
}

func ExampleParseQuarter() {
	d, _ := ParseQuarter("Q3 2025")
	fmt.Println(d.Format("2006-01-02"))
	// Output: 2025-07-01
}
