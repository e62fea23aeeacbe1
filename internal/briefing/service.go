// Package briefing wires the pipeline together: one Sync is a generation
// call, a cache write, and a distribution fan-out, in that order.
package briefing

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/cache"
	"github.com/brieflyai/brieflyai/internal/models"
	"github.com/brieflyai/brieflyai/internal/push"
	"github.com/brieflyai/brieflyai/internal/store"
)

// ErrSyncInFlight is returned when a sync is requested while another is
// still running. The UI disable-while-fetching affordance is advisory; this
// guard is authoritative.
var ErrSyncInFlight = errors.New("同步正在进行中，请稍候")

// Generator is the slice of the AI client the service needs.
type Generator interface {
	GenerateBriefing(ctx context.Context, configs []models.CategoryConfig) (*models.BriefingReport, error)
}

// Distributor fans a report out to the configured channels.
type Distributor interface {
	Distribute(ctx context.Context, report *models.BriefingReport, prefs models.UserPreferences) []push.Result
}

type Service struct {
	log   *zap.Logger
	gen   Generator
	cache *cache.ReportCache
	dist  Distributor
	state *store.Store

	syncing atomic.Bool
	status  atomic.Value
}

func NewService(log *zap.Logger, gen Generator, reportCache *cache.ReportCache, dist Distributor, state *store.Store) *Service {
	s := &Service{
		log:   log,
		gen:   gen,
		cache: reportCache,
		dist:  dist,
		state: state,
	}
	s.status.Store(models.StatusIdle)
	return s
}

// Status reports the coarse pipeline state for the presentation layer.
func (s *Service) Status() models.ReportStatus {
	return s.status.Load().(models.ReportStatus)
}

// CachedReport returns the last successful report if it is still fresh.
func (s *Service) CachedReport() (*models.BriefingReport, bool) {
	return s.cache.Load()
}

// Sync runs generation, caching and fan-out once. Generation must succeed
// before any channel is attempted; delivery failures never fail the sync.
func (s *Service) Sync(ctx context.Context) (*models.BriefingReport, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncInFlight
	}
	defer s.syncing.Store(false)

	s.status.Store(models.StatusFetching)

	configs := s.state.Categories()
	report, err := s.gen.GenerateBriefing(ctx, configs)
	if err != nil {
		s.status.Store(models.StatusError)
		s.log.Error("briefing generation failed", zap.Error(err))
		return nil, err
	}

	if err := s.cache.Save(report); err != nil {
		// The report is still good; a cache write failure only costs the
		// next cold start.
		s.log.Warn("report cache write failed", zap.Error(err))
	}

	prefs := s.state.Preferences()
	results := s.dist.Distribute(ctx, report, prefs)
	for _, r := range results {
		if !r.OK {
			s.log.Warn("delivery incomplete", zap.String("channel", r.Channel), zap.String("error", r.Error))
		}
	}

	s.status.Store(models.StatusCompleted)
	s.log.Info("briefing sync completed",
		zap.String("date", report.Date),
		zap.Int("sections", len(report.Sections)),
		zap.Int("trending", len(report.Trending)),
		zap.Int("channels", len(results)),
	)
	return report, nil
}

// RunScheduled is the scheduler entry point: identical to Sync, but a report
// concurrently produced by a manual sync is not an error.
func (s *Service) RunScheduled(ctx context.Context) error {
	_, err := s.Sync(ctx)
	if errors.Is(err, ErrSyncInFlight) {
		s.log.Info("scheduled run skipped, sync already in flight")
		return nil
	}
	return err
}
