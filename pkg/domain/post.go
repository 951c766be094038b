package domain

import "time"

// SentimentLabel is the upstream sentiment classification of a post
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ActionLevel is the upstream estimate of how urgently a post needs a response
type ActionLevel string

const (
	ActionNone   ActionLevel = "none"
	ActionLow    ActionLevel = "low"
	ActionMedium ActionLevel = "medium"
	ActionHigh   ActionLevel = "high"
)

// Post is a forum post supplied pre-annotated by the upstream collaborator.
// Annotation fields are never mutated here, the post feed only filters,
// sorts and paginates the set.
type Post struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Category         ProductTag     `json:"category"`
	Author           string         `json:"author"`
	Date             time.Time      `json:"date"`
	URL              string         `json:"url"`
	SentimentLabel   SentimentLabel `json:"sentiment_label"`
	SentimentScore   float64        `json:"sentiment_score"`
	AISummary        string         `json:"ai_summary"`
	AIKeyPoints      []string       `json:"ai_key_points"`
	AIHashtags       []string       `json:"ai_hashtags"`
	AICategory       string         `json:"ai_category"`
	AIActionRequired ActionLevel    `json:"ai_action_required"`
}

// PostStats is the aggregate statistics response used for pagination
type PostStats struct {
	TotalPosts int `json:"total_posts"`
}
