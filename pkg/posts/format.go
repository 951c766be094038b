package posts

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/pulseboard/pkg/domain"
)

const (
	maxKeyPoints = 3
	maxHashtags  = 5
)

// sanitize strips any markup upstream annotations may carry, summaries are
// rendered as plain text
var sanitize = bluemonday.StrictPolicy()

// Formatted is a post with derived display fields attached. Stored
// annotation fields pass through untouched.
type Formatted struct {
	domain.Post
	CategoryColor  string   `json:"category_color"`
	SentimentColor string   `json:"sentiment_color"`
	DisplayTitle   string   `json:"display_title"`
	KeyPoints      []string `json:"key_points"`
	Hashtags       []string `json:"hashtags"`
	ActionBadge    string   `json:"action_badge,omitempty"`
}

// Format derives display fields for a single post
func Format(p domain.Post) Formatted {
	f := Formatted{
		Post:           p,
		CategoryColor:  CategoryColor(p.Category),
		SentimentColor: SentimentColor(p.SentimentLabel),
		DisplayTitle:   displayTitle(p),
		KeyPoints:      truncate(p.AIKeyPoints, maxKeyPoints),
		Hashtags:       truncate(p.AIHashtags, maxHashtags),
	}
	f.AISummary = sanitize.Sanitize(p.AISummary)
	if p.AIActionRequired != "" && p.AIActionRequired != domain.ActionNone {
		f.ActionBadge = fmt.Sprintf("Action required: %s", p.AIActionRequired)
	}
	return f
}

// CategoryColor maps a product tag to its display color, unknown tags get
// a neutral gray
func CategoryColor(tag domain.ProductTag) string {
	switch tag {
	case domain.ProductTracker:
		return "#2563eb"
	case domain.ProductServiceDesk:
		return "#0d9488"
	case domain.ProductWiki:
		return "#7c3aed"
	default:
		return "#6b7280"
	}
}

// SentimentColor maps a sentiment label to its display color
func SentimentColor(label domain.SentimentLabel) string {
	switch label {
	case domain.SentimentPositive:
		return "#22c55e"
	case domain.SentimentNegative:
		return "#ef4444"
	default:
		return "#64748b"
	}
}

func displayTitle(p domain.Post) string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	return fmt.Sprintf("Discussion in %s", strings.ToUpper(string(p.Category)))
}

func truncate(list []string, limit int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
