// Package issues classifies reported community problems by severity and
// urgency for the dashboard. The time window is forwarded verbatim to the
// upstream query, windowing is the collaborator's job and nothing here
// refilters by date.
package issues

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/pulseboard/pkg/domain"
)

// allowed time windows in days
const (
	Window7  = 7
	Window14 = 14
	Window30 = 30
)

const dayMillis = 24 * 60 * 60 * 1000

// ErrInvalidWindow is returned for a window outside {7, 14, 30}
var ErrInvalidWindow = fmt.Errorf("window must be one of 7, 14 or 30 days")

// Fetcher retrieves raw critical issues for a time window
type Fetcher interface {
	CriticalIssues(ctx context.Context, days int) ([]domain.CriticalIssue, error)
}

// Classifier turns raw critical issues into classified display records
type Classifier struct {
	fetcher Fetcher
	now     func() time.Time // replaceable for tests
}

// SeverityStyle is the visual weight assigned to a severity tier
type SeverityStyle struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Weight int    `json:"weight"` // ordinal, critical=4 down to low=1
}

// Classified is an issue with display classification attached
type Classified struct {
	domain.CriticalIssue
	Style             SeverityStyle `json:"style"`
	ImpactIcon        string        `json:"impact_icon"`
	FirstReportedAgo  string        `json:"first_reported_ago"`
	LatestReportAgo   string        `json:"latest_report_ago"`
	ShowUrgencyBanner bool          `json:"show_urgency_banner"`
}

// Result is the tagged outcome of a classification run
type Result struct {
	Status domain.OutcomeStatus `json:"status"`
	Reason string               `json:"reason,omitempty"`
	Days   int                  `json:"days"`
	Issues []Classified         `json:"issues"`
}

// NewClassifier creates a classifier using wall-clock time
func NewClassifier(fetcher Fetcher) *Classifier {
	return &Classifier{fetcher: fetcher, now: time.Now}
}

// Classify fetches issues for the window and classifies them. Invalid
// windows are rejected before any upstream call. On fetch failure a single
// deterministic demonstration issue is substituted so the panel never shows
// a false "all clear".
func (c *Classifier) Classify(ctx context.Context, days int) (Result, error) {
	if days != Window7 && days != Window14 && days != Window30 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidWindow, days)
	}

	raw, err := c.fetcher.CriticalIssues(ctx, days)
	if err != nil {
		lgr.Printf("[WARN] critical issues unavailable for %d day window, serving fallback: %v", days, err)
		return Result{
			Status: domain.OutcomeDegraded,
			Reason: "issue reports temporarily unavailable",
			Days:   days,
			Issues: c.classify([]domain.CriticalIssue{fallbackIssue(c.now())}),
		}, nil
	}

	if len(raw) == 0 {
		return Result{Status: domain.OutcomeEmpty, Days: days, Issues: []Classified{}}, nil
	}
	return Result{Status: domain.OutcomeOK, Days: days, Issues: c.classify(raw)}, nil
}

func (c *Classifier) classify(raw []domain.CriticalIssue) []Classified {
	now := c.now()
	classified := make([]Classified, len(raw))
	for i, issue := range raw {
		if issue.FirstReported.After(issue.LatestReport) {
			lgr.Printf("[WARN] issue %q violates report ordering: first %s after latest %s",
				issue.Title, issue.FirstReported.Format(time.RFC3339), issue.LatestReport.Format(time.RFC3339))
		}
		classified[i] = Classified{
			CriticalIssue:     issue,
			Style:             StyleFor(issue.Severity),
			ImpactIcon:        ImpactIcon(issue.BusinessImpact),
			FirstReportedAgo:  TimeAgo(issue.FirstReported, now),
			LatestReportAgo:   TimeAgo(issue.LatestReport, now),
			ShowUrgencyBanner: issue.ResolutionUrgency == domain.UrgencyImmediate,
		}
	}
	return classified
}

// StyleFor maps a severity to its display style. Unknown severities get the
// lowest tier's treatment.
func StyleFor(severity domain.Severity) SeverityStyle {
	switch severity {
	case domain.SeverityCritical:
		return SeverityStyle{Label: "Critical", Color: "#dc2626", Weight: 4}
	case domain.SeverityHigh:
		return SeverityStyle{Label: "High", Color: "#ea580c", Weight: 3}
	case domain.SeverityMedium:
		return SeverityStyle{Label: "Medium", Color: "#ca8a04", Weight: 2}
	default:
		return SeverityStyle{Label: "Low", Color: "#64748b", Weight: 1}
	}
}

// ImpactIcon maps a business impact tag to its display icon
func ImpactIcon(impact domain.BusinessImpact) string {
	switch impact {
	case domain.ImpactProductivityLoss:
		return "📉"
	case domain.ImpactWorkflowBroken:
		return "🔗"
	case domain.ImpactDataAccessBlocked:
		return "🔒"
	default:
		return "⚠️"
	}
}

// TimeAgo renders the whole-day distance between ts and now. The difference
// is floor-divided in milliseconds by one day's worth, not computed from
// calendar days, so a timestamp 23h59m ago still reads "Today".
func TimeAgo(ts, now time.Time) string {
	days := now.Sub(ts).Milliseconds() / dayMillis
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// fallbackIssue is the deterministic demonstration issue served when the
// upstream fetch fails
func fallbackIssue(now time.Time) domain.CriticalIssue {
	return domain.CriticalIssue{
		Title:            "Issue feed unavailable - showing demonstration data",
		Severity:         domain.SeverityMedium,
		ReportCount:      12,
		AffectedProducts: []domain.ProductTag{domain.ProductTracker},
		FirstReported:    now.Add(-72 * time.Hour),
		LatestReport:     now.Add(-2 * time.Hour),
		BusinessImpact:   domain.ImpactProductivityLoss,
		SamplePosts: []domain.SamplePost{
			{Title: "Board filters reset after every page reload", URL: "https://community.example.com/posts/board-filters", Author: "demo-reporter"},
		},
		ResolutionUrgency: domain.UrgencyNormal,
	}
}
