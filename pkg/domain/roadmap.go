package domain

// Platform identifies a roadmap deployment target
type Platform string

const (
	PlatformCloud      Platform = "cloud"
	PlatformDataCenter Platform = "datacenter"
)

// DisplayName returns the human form of the platform name
func (p Platform) DisplayName() string {
	if p == PlatformDataCenter {
		return "Data Center"
	}
	return "Cloud"
}

// ReleaseState is the closed classification of a feature's free-text status,
// assigned once at the ingestion boundary so the summarizer branches on an
// enum instead of raw upstream text
type ReleaseState string

const (
	StateReleased      ReleaseState = "released"
	StateUpcoming      ReleaseState = "upcoming"
	StateUncategorized ReleaseState = "uncategorized"
)

// RoadmapFeature is a planned or released product capability
type RoadmapFeature struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"` // free text, matched case-insensitively
	Quarter     string       `json:"quarter"` // "Qn YYYY"
	Products    []ProductTag `json:"products"`
}

// RoadmapSnapshot is one platform's full feature list. Cloud and data-center
// snapshots are fetched independently and never merged.
type RoadmapSnapshot struct {
	Platform Platform         `json:"platform"`
	Features []RoadmapFeature `json:"features"`
}

// RoadmapSummary holds the four narrative summaries, one per platform and
// time axis. Pure function output of two snapshots, recomputed whenever
// either changes and never persisted.
type RoadmapSummary struct {
	Released PlatformSummaries `json:"released"`
	Upcoming PlatformSummaries `json:"upcoming"`
}

// PlatformSummaries pairs the per-platform summary strings
type PlatformSummaries struct {
	Cloud      string `json:"cloud"`
	DataCenter string `json:"datacenter"`
}
