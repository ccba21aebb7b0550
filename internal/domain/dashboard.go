package domain

import "time"

// PushEventType is the only activity event kind the aggregator consumes.
const PushEventType = "PushEvent"

// Repository is an immutable snapshot of one public repository as returned
// by the upstream API. It is never mutated locally.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url"`
}

// ActivityEvent is one record from the user's public activity feed.
// CommitCount is the push payload size; it is zero for non-push events.
// Events are read-only and discarded after aggregation.
type ActivityEvent struct {
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	CommitCount int       `json:"commit_count"`
}

// MonthlyBucket holds the rolled-up counters for one calendar month.
type MonthlyBucket struct {
	Month        YearMonth `json:"month"`
	Label        string    `json:"label"`
	Commits      int       `json:"commits"`
	Repositories int       `json:"repositories"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
}

// LanguageCount is one entry of the summary language histogram.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Summary holds whole-profile statistics computed over the full
// repository list, independent of the 12-month window.
type Summary struct {
	TotalRepositories int             `json:"total_repositories"`
	TotalStars        int             `json:"total_stars"`
	TotalForks        int             `json:"total_forks"`
	MeanStars         float64         `json:"mean_stars"`
	MedianStars       float64         `json:"median_stars"`
	P90Stars          float64         `json:"p90_stars"`
	Languages         []LanguageCount `json:"languages,omitempty"`
}

// Dashboard is the complete analysis result for one user: exactly twelve
// chronologically ordered monthly buckets, the full repository list, and
// the summary statistics.
type Dashboard struct {
	User         string          `json:"user"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Months       []MonthlyBucket `json:"months"`
	Repositories []Repository    `json:"repositories"`
	Summary      Summary         `json:"summary"`
}
