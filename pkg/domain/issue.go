package domain

import "time"

// Severity is a 4-tier ordinal issue severity
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// BusinessImpact describes the kind of damage an issue causes
type BusinessImpact string

const (
	ImpactProductivityLoss  BusinessImpact = "productivity_loss"
	ImpactWorkflowBroken    BusinessImpact = "workflow_broken"
	ImpactDataAccessBlocked BusinessImpact = "data_access_blocked"
	ImpactOther             BusinessImpact = "other"
)

// ResolutionUrgency flags issues that demand immediate attention
type ResolutionUrgency string

const (
	UrgencyImmediate ResolutionUrgency = "immediate"
	UrgencyNormal    ResolutionUrgency = "normal"
)

// SamplePost is a single community report backing a critical issue
type SamplePost struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

// CriticalIssue is an aggregated cluster of community reports describing a
// single underlying problem. Recomputed upstream per time-window query, the
// window itself is a query parameter and not stored state.
// Invariant: FirstReported <= LatestReport.
type CriticalIssue struct {
	Title             string            `json:"issue_title"`
	Severity          Severity          `json:"severity"`
	ReportCount       int               `json:"report_count"`
	AffectedProducts  []ProductTag      `json:"affected_products"`
	FirstReported     time.Time         `json:"first_reported"`
	LatestReport      time.Time         `json:"latest_report"`
	BusinessImpact    BusinessImpact    `json:"business_impact"`
	SamplePosts       []SamplePost      `json:"sample_posts"`
	ResolutionUrgency ResolutionUrgency `json:"resolution_urgency"`
}
