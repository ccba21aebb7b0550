package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/mizuho-dev/ghdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// anchor is the fixed wall-clock date injected into the builder, so the
// trailing window is always July 2023 through June 2024.
var anchor = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It lets us simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) FetchEvents(ctx context.Context, user string) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityEvent), args.Error(1)
}

func (m *mockFetcher) FetchMonthlyContributions(ctx context.Context, user string, from, to time.Time) (map[domain.YearMonth]int, error) {
	args := m.Called(ctx, user, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.YearMonth]int), args.Error(1)
}

// zeroedWindow returns the twelve zero-valued buckets for the anchor window.
func zeroedWindow() []domain.MonthlyBucket {
	window := domain.TrailingWindow(anchor, 12)
	buckets := make([]domain.MonthlyBucket, 0, len(window))
	for _, ym := range window {
		buckets = append(buckets, domain.MonthlyBucket{Month: ym, Label: ym.Label()})
	}
	return buckets
}

// withBucket replaces the bucket for ym in a copy of months.
func withBucket(months []domain.MonthlyBucket, bucket domain.MonthlyBucket) []domain.MonthlyBucket {
	out := make([]domain.MonthlyBucket, len(months))
	copy(out, months)
	for i := range out {
		if out[i].Month == bucket.Month {
			bucket.Label = out[i].Label
			out[i] = bucket
		}
	}
	return out
}

func TestBuilder_Build(t *testing.T) {
	may := domain.YearMonth{Year: 2024, Month: time.May}
	june := domain.YearMonth{Year: 2024, Month: time.June}
	july2023 := domain.YearMonth{Year: 2023, Month: time.July}

	testCases := []struct {
		name             string
		repositories     []domain.Repository
		events           []domain.ActivityEvent
		contributions    map[domain.YearMonth]int
		useContributions bool
		fetchErr         error
		expectedMonths   []domain.MonthlyBucket
		expectedSummary  domain.Summary
		expectError      bool
	}{
		{
			name: "happy path - repository and push event land in their months",
			repositories: []domain.Repository{
				{Name: "demo", Language: "Go", Stars: 3, Forks: 1, CreatedAt: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
			},
			events: []domain.ActivityEvent{
				{Type: domain.PushEventType, CreatedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), CommitCount: 4},
			},
			expectedMonths: withBucket(
				withBucket(zeroedWindow(), domain.MonthlyBucket{Month: may, Repositories: 1, Stars: 3, Forks: 1}),
				domain.MonthlyBucket{Month: june, Commits: 4},
			),
			expectedSummary: domain.Summary{
				TotalRepositories: 1,
				TotalStars:        3,
				TotalForks:        1,
				MeanStars:         3,
				MedianStars:       3,
				P90Stars:          3,
				Languages:         []domain.LanguageCount{{Language: "Go", Count: 1}},
			},
		},
		{
			name:            "empty inputs - twelve zeroed buckets",
			repositories:    []domain.Repository{},
			events:          []domain.ActivityEvent{},
			expectedMonths:  zeroedWindow(),
			expectedSummary: domain.Summary{},
		},
		{
			name: "window edges - 11 months back kept, 12+ months back dropped",
			repositories: []domain.Repository{
				{Name: "oldest-kept", Stars: 2, CreatedAt: time.Date(2023, time.July, 20, 0, 0, 0, 0, time.UTC)},
				{Name: "too-old", Stars: 9, CreatedAt: time.Date(2023, time.June, 30, 23, 59, 0, 0, time.UTC)},
			},
			events: []domain.ActivityEvent{},
			expectedMonths: withBucket(zeroedWindow(),
				domain.MonthlyBucket{Month: july2023, Repositories: 1, Stars: 2}),
			expectedSummary: domain.Summary{
				TotalRepositories: 2,
				TotalStars:        11,
				MeanStars:         5.5,
				MedianStars:       5.5,
				P90Stars:          5.5,
			},
		},
		{
			name:         "non-push events never touch any counter",
			repositories: []domain.Repository{},
			events: []domain.ActivityEvent{
				{Type: "CreateEvent", CreatedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), CommitCount: 7},
				{Type: "WatchEvent", CreatedAt: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)},
			},
			expectedMonths:  zeroedWindow(),
			expectedSummary: domain.Summary{},
		},
		{
			name:         "contributions replace event-derived commit counts",
			repositories: []domain.Repository{},
			events: []domain.ActivityEvent{
				{Type: domain.PushEventType, CreatedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), CommitCount: 4},
			},
			contributions:    map[domain.YearMonth]int{june: 10, may: 2},
			useContributions: true,
			expectedMonths: withBucket(
				withBucket(zeroedWindow(), domain.MonthlyBucket{Month: may, Commits: 2}),
				domain.MonthlyBucket{Month: june, Commits: 10},
			),
			expectedSummary: domain.Summary{},
		},
		{
			name:        "error case - repository fetch failure aborts the build",
			fetchErr:    errors.New("github api error"),
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockFetcher)

			if tc.fetchErr != nil {
				fetcher.On("FetchRepositories", mock.Anything, "any-user").Return(nil, tc.fetchErr)
				fetcher.On("FetchEvents", mock.Anything, "any-user").Return([]domain.ActivityEvent{}, nil).Maybe()
			} else {
				fetcher.On("FetchRepositories", mock.Anything, "any-user").Return(tc.repositories, nil)
				fetcher.On("FetchEvents", mock.Anything, "any-user").Return(tc.events, nil)
			}
			if tc.useContributions {
				fetcher.On("FetchMonthlyContributions", mock.Anything, "any-user", mock.Anything, mock.Anything).Return(tc.contributions, nil)
			}

			builder := NewBuilder(fetcher, logger)
			builder.now = func() time.Time { return anchor }

			dashboard, err := builder.Build(ctx, "any-user", tc.useContributions)

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, dashboard)
			} else {
				require.NoError(t, err)
				require.Len(t, dashboard.Months, 12)
				assert.Equal(t, tc.expectedMonths, dashboard.Months)
				assert.Equal(t, tc.repositories, dashboard.Repositories)
				assert.Equal(t, tc.expectedSummary, dashboard.Summary)
				assert.Equal(t, "any-user", dashboard.User)
				assert.Equal(t, anchor, dashboard.GeneratedAt)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestBuilder_Build_EmptyUsername(t *testing.T) {
	fetcher := new(mockFetcher)
	builder := NewBuilder(fetcher, log.New(io.Discard, "", 0))

	for _, user := range []string{"", "   ", "\t"} {
		dashboard, err := builder.Build(context.Background(), user, false)
		assert.ErrorIs(t, err, ErrEmptyUsername)
		assert.Nil(t, dashboard)
	}
	// Rejected before any network call: no fetcher method may have run.
	fetcher.AssertNotCalled(t, "FetchRepositories")
	fetcher.AssertNotCalled(t, "FetchEvents")
}

func TestBuilder_Build_ConcreteScenarioLabels(t *testing.T) {
	// Anchor 2024-06-15: the "May 2024" bucket carries the repository
	// counters and the "June 2024" bucket carries the pushed commits.
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositories", mock.Anything, "octocat").Return([]domain.Repository{
		{Name: "demo", Stars: 3, Forks: 1, CreatedAt: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)
	fetcher.On("FetchEvents", mock.Anything, "octocat").Return([]domain.ActivityEvent{
		{Type: domain.PushEventType, CreatedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), CommitCount: 4},
	}, nil)

	builder := NewBuilder(fetcher, log.New(io.Discard, "", 0))
	builder.now = func() time.Time { return anchor }

	dashboard, err := builder.Build(context.Background(), "octocat", false)
	require.NoError(t, err)

	byLabel := make(map[string]domain.MonthlyBucket, len(dashboard.Months))
	for _, bucket := range dashboard.Months {
		byLabel[bucket.Label] = bucket
	}
	assert.Equal(t, 1, byLabel["May 2024"].Repositories)
	assert.Equal(t, 3, byLabel["May 2024"].Stars)
	assert.Equal(t, 1, byLabel["May 2024"].Forks)
	assert.Equal(t, 0, byLabel["May 2024"].Commits)
	assert.Equal(t, 4, byLabel["June 2024"].Commits)
	assert.Equal(t, 0, byLabel["June 2024"].Repositories)

	zeroed := 0
	for _, bucket := range dashboard.Months {
		if bucket == (domain.MonthlyBucket{Month: bucket.Month, Label: bucket.Label}) {
			zeroed++
		}
	}
	assert.Equal(t, 10, zeroed)
}
