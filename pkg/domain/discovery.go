package domain

// ProductTag identifies a tracked product line, used to group and filter
// discoveries, issues, roadmap features and posts
type ProductTag string

// known product lines, upstream may introduce new ones at any time
const (
	ProductTracker     ProductTag = "tracker"
	ProductServiceDesk ProductTag = "service-desk"
	ProductWiki        ProductTag = "wiki"
)

// TechnicalLevel describes how advanced a community discovery is
type TechnicalLevel string

// technical levels in ascending order
const (
	LevelBasic        TechnicalLevel = "basic"
	LevelIntermediate TechnicalLevel = "intermediate"
	LevelAdvanced     TechnicalLevel = "advanced"
	LevelExpert       TechnicalLevel = "expert"
)

// EngagementPotential is a binary engagement classification
type EngagementPotential string

const (
	EngagementHigh   EngagementPotential = "high"
	EngagementNormal EngagementPotential = "normal"
)

// DiscoveryType categorizes a community write-up
type DiscoveryType string

const (
	DiscoveryUseCase      DiscoveryType = "use_case"
	DiscoveryIntegration  DiscoveryType = "integration"
	DiscoveryAutomation   DiscoveryType = "automation"
	DiscoverySuccessStory DiscoveryType = "success_story"
	DiscoveryOther        DiscoveryType = "other"
)

// Discovery represents a community-submitted write-up showcasing product usage.
// It is an immutable snapshot from upstream with no lifecycle beyond a single
// fetch-render cycle.
type Discovery struct {
	Title               string              `json:"title"`
	Summary             string              `json:"summary"`
	Author              string              `json:"author"`
	URL                 string              `json:"url"`
	ProductsUsed        []ProductTag        `json:"products_used"`
	TechnicalLevel      TechnicalLevel      `json:"technical_level"`
	HasScreenshots      bool                `json:"has_screenshots"`
	EngagementPotential EngagementPotential `json:"engagement_potential"`
	DiscoveryType       DiscoveryType       `json:"discovery_type"`
}

// OutcomeStatus tags a module result so callers can distinguish live data,
// fallback data substituted after an upstream failure, and a genuine empty set
type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "ok"
	OutcomeDegraded OutcomeStatus = "degraded"
	OutcomeEmpty    OutcomeStatus = "empty"
)
