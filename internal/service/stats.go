package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quillworks/quill-api/internal/domain/model"
	"github.com/quillworks/quill-api/internal/ports"
)

const statsCacheKey = "quill:stats:dashboard"

// lastMonthWindow is the trailing window for "recent" dashboard counts.
const lastMonthWindow = 30 * 24 * time.Hour

// DashboardStats aggregates totals across the platform for the admin view.
type DashboardStats struct {
	Accounts model.AccountStats `json:"accounts"`
	Posts    model.PostStats    `json:"posts"`
	Comments model.CommentStats `json:"comments"`
}

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	Accounts ports.AccountRepository // Required
	Posts    ports.PostRepository    // Required
	Comments ports.CommentRepository // Required
	Cache    ports.StatsCache        // Optional: counts hit storage directly when nil
	CacheTTL time.Duration           // Optional: defaults to 5 minutes
	Logger   *slog.Logger            // Optional: structured logger
}

// StatsService computes admin dashboard aggregates, with a short-TTL cache in
// front of the six count queries.
type StatsService struct {
	accounts ports.AccountRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	cache    ports.StatsCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	if opts.Accounts == nil || opts.Posts == nil || opts.Comments == nil {
		panic("stats service requires account, post, and comment repositories")
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		accounts: opts.Accounts,
		posts:    opts.Posts,
		comments: opts.Comments,
		cache:    opts.Cache,
		cacheTTL: ttl,
		logger:   logger.With("component", "stats_service"),
	}
}

// Dashboard returns platform totals, serving from cache when possible. Cache
// failures degrade to direct queries rather than failing the request.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		found, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			s.logger.WarnContext(ctx, "stats cache read failed", "err", err)
		} else if found {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", "err", err)
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (DashboardStats, error) {
	since := time.Now().UTC().Add(-lastMonthWindow)

	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Accounts.Total, err = s.accounts.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Accounts.LastMonth, err = s.accounts.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.Posts.Total, err = s.posts.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Posts.LastMonth, err = s.posts.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments.Total, err = s.comments.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments.LastMonth, err = s.comments.CountCreatedSince(gctx, since)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// Invalidate drops the cached dashboard aggregates.
func (s *StatsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, statsCacheKey)
}
