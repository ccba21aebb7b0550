// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/mizuho-dev/ghdash/internal/domain"
	"github.com/mizuho-dev/ghdash/internal/gateway"
)

// windowMonths is the length of the trailing analysis window.
const windowMonths = 12

// ErrEmptyUsername is returned when Build is called with a blank username,
// before any network call is made.
var ErrEmptyUsername = errors.New("username must not be empty")

// Builder is the use case for building a user dashboard.
// It orchestrates the fetching and combining of data.
type Builder struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewBuilder creates a new Builder instance.
func NewBuilder(fetcher gateway.Fetcher, logger *log.Logger) *Builder {
	return &Builder{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Build performs the main business logic: it fetches the user's
// repositories and recent activity concurrently, folds them into the
// trailing 12-month window anchored at the current date, and computes the
// whole-profile summary. The `useContributions` flag controls whether the
// authenticated contribution-calendar query is executed; when it is, its
// per-month counts replace the event-derived commit counts, which only
// cover the short lookback window of the public events feed.
func (b *Builder) Build(ctx context.Context, user string, useContributions bool) (*domain.Dashboard, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrEmptyUsername
	}
	b.logger.Printf("Usecase: Starting dashboard build for %s...\n", user)

	now := b.now()
	window := domain.TrailingWindow(now, windowMonths)
	windowStart := time.Date(window[0].Year, window[0].Month, 1, 0, 0, 0, 0, time.UTC)

	var repositories []domain.Repository
	var events []domain.ActivityEvent
	var contributions map[domain.YearMonth]int

	// Repository pagination is sequential inside the gateway; only the
	// independent endpoints are fetched concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		repositories, err = b.fetcher.FetchRepositories(egCtx, user)
		return err
	})

	eg.Go(func() error {
		var err error
		events, err = b.fetcher.FetchEvents(egCtx, user)
		return err
	})

	if useContributions {
		eg.Go(func() error {
			var err error
			contributions, err = b.fetcher.FetchMonthlyContributions(egCtx, user, windowStart, now)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	b.logger.Println("Usecase: All data fetched successfully.")

	dashboard := &domain.Dashboard{
		User:         user,
		GeneratedAt:  now,
		Months:       bucketize(window, repositories, events, contributions),
		Repositories: repositories,
		Summary:      summarize(repositories),
	}
	b.logger.Println("Usecase: Dashboard build complete.")
	return dashboard, nil
}

// bucketize folds repositories and activity into one zero-initialized
// bucket per window month. Data outside the window is dropped silently.
// The result always has exactly one chronologically ordered bucket per
// window month, however sparse the input.
func bucketize(window []domain.YearMonth, repositories []domain.Repository, events []domain.ActivityEvent, contributions map[domain.YearMonth]int) []domain.MonthlyBucket {
	buckets := make(map[domain.YearMonth]*domain.MonthlyBucket, len(window))
	for _, ym := range window {
		buckets[ym] = &domain.MonthlyBucket{Month: ym, Label: ym.Label()}
	}

	for _, repo := range repositories {
		bucket, ok := buckets[domain.YearMonthOf(repo.CreatedAt)]
		if !ok {
			continue
		}
		bucket.Repositories++
		bucket.Stars += repo.Stars
		bucket.Forks += repo.Forks
	}

	if contributions != nil {
		// Accurate counts for the whole window; the events feed is not consulted.
		for ym, count := range contributions {
			if bucket, ok := buckets[ym]; ok {
				bucket.Commits = count
			}
		}
	} else {
		for _, event := range events {
			if event.Type != domain.PushEventType {
				continue
			}
			if bucket, ok := buckets[domain.YearMonthOf(event.CreatedAt)]; ok {
				bucket.Commits += event.CommitCount
			}
		}
	}

	months := make([]domain.MonthlyBucket, 0, len(window))
	for _, ym := range window {
		months = append(months, *buckets[ym])
	}
	return months
}

// summarize computes whole-profile statistics over the full repository
// list, independent of the monthly window.
func summarize(repositories []domain.Repository) domain.Summary {
	summary := domain.Summary{TotalRepositories: len(repositories)}
	if len(repositories) == 0 {
		return summary
	}

	starCounts := make([]float64, 0, len(repositories))
	languages := make(map[string]int)
	for _, repo := range repositories {
		summary.TotalStars += repo.Stars
		summary.TotalForks += repo.Forks
		starCounts = append(starCounts, float64(repo.Stars))
		if repo.Language != "" {
			languages[repo.Language]++
		}
	}

	// The stats helpers only fail on empty input, which is excluded above.
	summary.MeanStars, _ = stats.Mean(starCounts)
	summary.MedianStars, _ = stats.Median(starCounts)
	summary.P90Stars, _ = stats.Percentile(starCounts, 90)

	for language, count := range languages {
		summary.Languages = append(summary.Languages, domain.LanguageCount{Language: language, Count: count})
	}
	sort.Slice(summary.Languages, func(i, j int) bool {
		if summary.Languages[i].Count != summary.Languages[j].Count {
			return summary.Languages[i].Count > summary.Languages[j].Count
		}
		return summary.Languages[i].Language < summary.Languages[j].Language
	})
	return summary
}
