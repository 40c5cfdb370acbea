package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/naka-gawa/github-contributions/internal/domain"
	"github.com/naka-gawa/github-contributions/internal/gateway"
	"golang.org/x/sync/errgroup"
)

const (
	// topLanguages is how many languages Languages reports.
	topLanguages = 5
	// DefaultRepositoryLimit is the default size of TopRepositories.
	DefaultRepositoryLimit = 6
)

// ProfileService serves account-level statistics from the REST API.
type ProfileService struct {
	fetcher gateway.Fetcher
	login   string
	logger  *slog.Logger
}

// NewProfileService creates a new ProfileService for the account login.
func NewProfileService(fetcher gateway.Fetcher, login string, logger *slog.Logger) *ProfileService {
	return &ProfileService{fetcher: fetcher, login: login, logger: logger}
}

// Profile returns star, repository and follower totals plus the years the
// account has contributions in.
func (s *ProfileService) Profile(ctx context.Context) (*domain.ProfileStats, error) {
	var (
		profile *domain.Profile
		repos   []domain.OwnedRepository
		years   []int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		profile, err = s.fetcher.FetchProfile(egCtx, s.login)
		return err
	})
	eg.Go(func() error {
		var err error
		repos, err = s.fetcher.FetchOwnedRepositories(egCtx, s.login)
		return err
	})
	eg.Go(func() error {
		var err error
		years, err = s.fetcher.FetchContributionYears(egCtx, s.login)
		return err
	})
	if err := eg.Wait(); err != nil {
		s.logger.Error("failed to fetch profile stats", "error", err)
		return nil, err
	}

	stars := 0
	for _, r := range repos {
		stars += r.Stars
	}
	years = slices.Clone(years)
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })

	return &domain.ProfileStats{
		TotalStars:        stars,
		TotalRepos:        profile.PublicRepos,
		TotalFollowers:    profile.Followers,
		ContributionYears: years,
	}, nil
}

// Languages returns the share of owned repositories per primary language,
// rounded to whole percent, for the most common languages.
func (s *ProfileService) Languages(ctx context.Context) ([]domain.LanguageShare, error) {
	repos, err := s.fetcher.FetchOwnedRepositories(ctx, s.login)
	if err != nil {
		s.logger.Error("failed to fetch language stats", "error", err)
		return nil, err
	}
	return languageShares(repos, topLanguages), nil
}

// TopRepositories returns up to limit owned, non-fork repositories ordered by
// stars.
func (s *ProfileService) TopRepositories(ctx context.Context, limit int) ([]domain.OwnedRepository, error) {
	repos, err := s.fetcher.FetchOwnedRepositories(ctx, s.login)
	if err != nil {
		s.logger.Error("failed to fetch repositories", "error", err)
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRepositoryLimit
	}

	out := make([]domain.OwnedRepository, 0, limit)
	for _, r := range repos {
		if r.Fork {
			continue
		}
		if r.Description == "" {
			r.Description = "No description available"
		}
		if r.Language == "" {
			r.Language = "Unknown"
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b domain.OwnedRepository) int { return cmp.Compare(b.Stars, a.Stars) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func languageShares(repos []domain.OwnedRepository, top int) []domain.LanguageShare {
	counts := make(map[string]int)
	total := 0
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		counts[r.Language]++
		total++
	}

	shares := make([]domain.LanguageShare, 0, len(counts))
	for lang, n := range counts {
		shares = append(shares, domain.LanguageShare{
			Language: lang,
			Percent:  int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	slices.SortFunc(shares, func(a, b domain.LanguageShare) int {
		if c := cmp.Compare(b.Percent, a.Percent); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	if len(shares) > top {
		shares = shares[:top]
	}
	return shares
}
