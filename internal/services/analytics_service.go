package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// RecordSource loads a user's complete record set for the metrics engine.
type RecordSource interface {
	ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	ListAllBudgets(ctx context.Context, userID string) ([]models.Budget, error)
}

type storeSource struct {
	TransactionServicer
	BudgetServicer
}

// NewRecordSource reads records straight from the database.
func NewRecordSource(db *gorm.DB) RecordSource {
	return storeSource{
		TransactionServicer: NewTransactionService(db, nil),
		BudgetServicer:      NewBudgetService(db, nil),
	}
}

// AnalyticsOptions tunes snapshot loading.
type AnalyticsOptions struct {
	// MaxRetries bounds retries of a failed store read; 0 means one attempt.
	MaxRetries      uint64
	InitialInterval time.Duration
}

// reportEntry is a cached report. It is only served for the same reference
// date and while the user's generation is unchanged.
type reportEntry struct {
	asOf       string
	generation uint64
	report     *analytics.Report
}

// ReportCache holds at most one report per user.
type ReportCache = cache.Cache[reportEntry]

type analyticsService struct {
	source  RecordSource
	reports *ReportCache
	opts    AnalyticsOptions

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAnalyticsService creates a new AnalyticsServicer. reports may be nil to
// disable caching.
func NewAnalyticsService(source RecordSource, reports *ReportCache, opts AnalyticsOptions) AnalyticsServicer {
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 100 * time.Millisecond
	}
	return &analyticsService{
		source:      source,
		reports:     reports,
		opts:        opts,
		generations: make(map[string]uint64),
	}
}

// NewReportCache builds the cache used by NewAnalyticsService.
func NewReportCache(maxEntries int64, ttl time.Duration) (*ReportCache, error) {
	return cache.New[reportEntry](maxEntries, ttl)
}

// GetReport returns every derived view for the user as of asOf.
func (s *analyticsService) GetReport(ctx context.Context, userID string, asOf time.Time) (*analytics.Report, error) {
	day := models.DateOf(asOf).String()
	generation := s.generation(userID)

	if s.reports != nil {
		if entry, ok := s.reports.Get(userID); ok && entry.asOf == day && entry.generation == generation {
			return entry.report, nil
		}
	}

	txs, budgets, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := analytics.Compute(txs, budgets, asOf)
	if s.reports != nil {
		s.reports.Set(userID, reportEntry{asOf: day, generation: generation, report: &report})
	}
	return &report, nil
}

// GetDashboard returns the current-month summary cards.
func (s *analyticsService) GetDashboard(ctx context.Context, userID string, asOf time.Time) (*analytics.DashboardSummary, error) {
	txs, _, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(txs, asOf)
	return &summary, nil
}

// GetBudgetOverview returns every budget with its current-month usage.
func (s *analyticsService) GetBudgetOverview(ctx context.Context, userID string, asOf time.Time) (*analytics.BudgetOverview, error) {
	txs, budgets, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview := analytics.Overview(budgets, txs, asOf)
	return &overview, nil
}

// RecordsChanged drops the user's cached report. A report computed from a
// snapshot taken before the change is never served afterwards.
func (s *analyticsService) RecordsChanged(userID string) {
	s.mu.Lock()
	s.generations[userID]++
	s.mu.Unlock()

	if s.reports != nil {
		s.reports.Del(userID)
	}
}

func (s *analyticsService) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

// loadSnapshot fetches transactions and budgets concurrently and rejects the
// snapshot if any record breaks the data contract.
func (s *analyticsService) loadSnapshot(ctx context.Context, userID string) ([]models.Transaction, []models.Budget, error) {
	var (
		txs     []models.Transaction
		budgets []models.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.withRetry(gctx, "transactions", userID, func() (err error) {
			txs, err = s.source.ListAllTransactions(gctx, userID)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "budgets", userID, func() (err error) {
			budgets, err = s.source.ListAllBudgets(gctx, userID)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i := range txs {
		if err := txs[i].Validate(); err != nil {
			logger.Get().Errorw("malformed transaction in snapshot", "user_id", userID, "error", err)
			return nil, nil, apperrors.Wrap(apperrors.ErrMalformedRecord, err)
		}
	}
	for i := range budgets {
		if err := budgets[i].Validate(); err != nil {
			logger.Get().Errorw("malformed budget in snapshot", "user_id", userID, "error", err)
			return nil, nil, apperrors.Wrap(apperrors.ErrMalformedRecord, err)
		}
	}
	return txs, budgets, nil
}

// withRetry retries op with exponential backoff while it fails with
// ErrStoreUnavailable. Any other error is returned immediately.
func (s *analyticsService) withRetry(ctx context.Context, what, userID string, op func() error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrStoreUnavailable) {
			return backoff.Permanent(err)
		}
		logger.Get().Warnw("store read failed",
			"records", what,
			"user_id", userID,
			"attempt", attempt,
			"error", err,
		)
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.opts.InitialInterval
	expBackoff.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expBackoff, s.opts.MaxRetries), ctx))
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	// Context cancellation or deadline while waiting between attempts.
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}
