// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/mizuho-dev/ghdash/internal/domain"
)

// pageSize is the fixed page size for the repository listing endpoint.
const pageSize = 100

// ErrNoToken is returned by FetchMonthlyContributions when the gateway was
// built without an API token; the GraphQL API rejects unauthenticated calls.
var ErrNoToken = errors.New("no API token configured")

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchRepositories returns every public repository of the user,
	// most-recently-updated first. A failure on any page discards all
	// pages fetched so far.
	FetchRepositories(ctx context.Context, user string) ([]domain.Repository, error)
	// FetchEvents returns one page of the user's recent public activity.
	// The upstream feed only covers roughly the last 90 events, so this
	// is best-effort recent activity, not a full history.
	FetchEvents(ctx context.Context, user string) ([]domain.ActivityEvent, error)
	// FetchMonthlyContributions returns the user's commit contributions
	// per calendar month over [from, to]. Requires a token.
	FetchMonthlyContributions(ctx context.Context, user string, from, to time.Time) (map[domain.YearMonth]int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// graphqlClient is nil when no token was supplied.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// contributionsQuery fetches the per-day contribution calendar, which the
// gateway rolls up into per-month commit counts.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional: without one the REST endpoints are called
// unauthenticated and only FetchMonthlyContributions is unavailable.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	httpClient := &http.Client{Transport: rateLimitWaiter}
	var graphqlClient *githubv4.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Base:   rateLimitWaiter,
				Source: ts,
			},
		}
		graphqlClient = githubv4.NewClient(httpClient)
	}

	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// FetchRepositories pages through the user's repositories sequentially,
// 100 per page, stopping at the first empty page.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	g.logger.Println("[1/2] Fetching repositories using REST API...")
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{Page: 1, PerPage: pageSize},
	}

	repositories := []domain.Repository{}
	for {
		page, _, err := g.restClient.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", user, err)
		}
		if len(page) == 0 {
			break
		}
		for _, repo := range page {
			repositories = append(repositories, domain.Repository{
				ID:          repo.GetID(),
				Name:        repo.GetName(),
				Description: repo.GetDescription(),
				Language:    repo.GetLanguage(),
				Stars:       repo.GetStargazersCount(),
				Forks:       repo.GetForksCount(),
				CreatedAt:   repo.GetCreatedAt().Time,
				URL:         repo.GetHTMLURL(),
			})
		}
		opts.Page++
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching repositories: %d found.\n", len(repositories))
	return repositories, nil
}

// FetchEvents retrieves a single page of the user's public activity feed.
func (g *GitHubGateway) FetchEvents(ctx context.Context, user string) ([]domain.ActivityEvent, error) {
	g.logger.Println("[2/2] Fetching recent public events using REST API...")
	opts := &github.ListOptions{PerPage: pageSize}
	raw, _, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, user, true, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", user, err)
	}

	events := make([]domain.ActivityEvent, 0, len(raw))
	for _, event := range raw {
		e := domain.ActivityEvent{
			Type:      event.GetType(),
			CreatedAt: event.GetCreatedAt().Time,
		}
		if e.Type == domain.PushEventType {
			payload, err := event.ParsePayload()
			if err != nil {
				return nil, fmt.Errorf("failed to parse push event payload: %w", err)
			}
			if push, ok := payload.(*github.PushEvent); ok {
				e.CommitCount = push.GetSize()
			}
		}
		events = append(events, e)
	}
	g.logger.Printf("Completed fetching events: %d found.\n", len(events))
	return events, nil
}

// FetchMonthlyContributions rolls the GraphQL contribution calendar up into
// per-month commit counts for the [from, to] window.
func (g *GitHubGateway) FetchMonthlyContributions(ctx context.Context, user string, from, to time.Time) (map[domain.YearMonth]int, error) {
	if g.graphqlClient == nil {
		return nil, ErrNoToken
	}
	g.logger.Println("Fetching contribution calendar using GraphQL API...")

	variables := map[string]interface{}{
		"login": githubv4.String(user),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}
	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for contributions: %w", err)
	}

	counts := make(map[domain.YearMonth]int)
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			date, err := time.Parse("2006-01-02", day.Date)
			if err != nil {
				return nil, fmt.Errorf("failed to parse contribution date %q: %w", day.Date, err)
			}
			counts[domain.YearMonthOf(date)] += day.ContributionCount
		}
	}
	g.logger.Println("Completed fetching contribution calendar.")
	return counts, nil
}
