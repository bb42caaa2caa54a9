package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/anyulbade/agency-platform/internal/auth"
	"github.com/anyulbade/agency-platform/internal/metrics"
	"github.com/anyulbade/agency-platform/internal/model"
)

const (
	DefaultReportValidity   = 7 * 24 * time.Hour
	DefaultAnalyticsTimeout = 10 * time.Second

	analyticsServiceName = "google_search_console"
	analyticsEndpoint    = "searchAnalytics/query"
	simulatorServiceName = "traffic_simulator"
	simulatorEndpoint    = "generateFullReport"
)

// ReportStore is the report cache keyed by (domain, country). Get returns
// nil, nil on a miss.
type ReportStore interface {
	Get(ctx context.Context, domain, country string) (*model.ReportCacheEntry, error)
	Upsert(ctx context.Context, entry *model.ReportCacheEntry) error
}

// AnalyticsSource is the optional real-data upstream.
type AnalyticsSource interface {
	IsConnected(ctx context.Context) (bool, error)
	FetchPerformance(ctx context.Context, domain string, start, end time.Time) (*model.AnalyticsPerformance, error)
}

type UsageLogger interface {
	LogUsage(ctx context.Context, entry *model.APIUsageLog) error
}

type TrafficServiceOption func(*TrafficService)

func WithValidity(d time.Duration) TrafficServiceOption {
	return func(s *TrafficService) {
		if d > 0 {
			s.validity = d
		}
	}
}

func WithAnalyticsTimeout(d time.Duration) TrafficServiceOption {
	return func(s *TrafficService) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithClock(now func() time.Time) TrafficServiceOption {
	return func(s *TrafficService) {
		s.now = now
		s.sim = s.sim.WithClock(now)
	}
}

// TrafficService decides between the cached report, real analytics blended
// into a simulation, and a full simulation.
type TrafficService struct {
	store        ReportStore
	analytics    AnalyticsSource
	usage        UsageLogger
	sim          *Simulator
	group        singleflight.Group
	validity     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
}

func NewTrafficService(store ReportStore, analytics AnalyticsSource, usage UsageLogger, sim *Simulator, opts ...TrafficServiceOption) *TrafficService {
	if sim == nil {
		sim = NewSimulator(nil)
	}
	s := &TrafficService{
		store:        store,
		analytics:    analytics,
		usage:        usage,
		sim:          sim,
		validity:     DefaultReportValidity,
		fetchTimeout: DefaultAnalyticsTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTrafficAnalysis always returns a report. Concurrent calls from the same
// actor for the same domain, country and competitor set share one computation.
func (s *TrafficService) GetTrafficAnalysis(ctx context.Context, domain, country string, competitors []string) *model.TrafficAnalysisReport {
	key := flightKey(auth.ActorFromContext(ctx), domain, country, competitors)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.analyze(context.WithoutCancel(ctx), domain, country, competitors), nil
	})
	return v.(*model.TrafficAnalysisReport)
}

func (s *TrafficService) analyze(ctx context.Context, domain, country string, competitors []string) *model.TrafficAnalysisReport {
	connected := s.integrationConnected(ctx)

	if cached := s.cachedReport(ctx, domain, country, connected); cached != nil {
		metrics.ReportsServed.WithLabelValues("cache").Inc()
		return cached
	}

	if connected {
		if report := s.blendRealData(ctx, domain, country, competitors); report != nil {
			metrics.ReportsServed.WithLabelValues("analytics").Inc()
			return report
		}
	}

	report := s.sim.GenerateFullReport(domain, country, competitors)
	s.logUsage(ctx, &model.APIUsageLog{
		ServiceName:   simulatorServiceName,
		Endpoint:      simulatorEndpoint,
		CostEstimated: 0,
		StatusCode:    http.StatusOK,
	})
	s.persist(ctx, report)
	metrics.ReportsServed.WithLabelValues("simulation").Inc()
	return report
}

func (s *TrafficService) integrationConnected(ctx context.Context) bool {
	if s.analytics == nil {
		return false
	}
	connected, err := s.analytics.IsConnected(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("analytics integration check failed, assuming disconnected")
		return false
	}
	return connected
}

func (s *TrafficService) cachedReport(ctx context.Context, domain, country string, connected bool) *model.TrafficAnalysisReport {
	if s.store == nil {
		return nil
	}
	entry, err := s.store.Get(ctx, domain, country)
	if err != nil {
		log.Error().Err(err).Str("domain", domain).Str("country", country).Msg("report cache read failed")
		return nil
	}
	if entry == nil || entry.Data == nil {
		return nil
	}
	if s.now().Sub(entry.LastUpdated) >= s.validity {
		return nil
	}
	if connected && entry.DataTrustLevel == model.TrustEstimated {
		log.Info().Str("domain", domain).Msg("analytics connected, discarding estimated cache entry")
		return nil
	}
	return entry.Data
}

func (s *TrafficService) blendRealData(ctx context.Context, domain, country string, competitors []string) *model.TrafficAnalysisReport {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -historyDays)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	perf, err := s.analytics.FetchPerformance(fetchCtx, domain, start, end)
	if err == nil && perf == nil {
		err = errors.New("analytics returned no data")
	}
	if err != nil {
		metrics.AnalyticsFailures.Inc()
		log.Warn().Err(err).Str("domain", domain).Msg("real analytics unavailable, falling back to simulation")
		s.logUsage(ctx, &model.APIUsageLog{
			ServiceName: analyticsServiceName,
			Endpoint:    analyticsEndpoint,
			StatusCode:  statusFromError(err),
		})
		return nil
	}

	report := s.sim.GenerateFullReport(domain, country, competitors)
	report.ReportData.Main.Visits = perf.Clicks
	report.ReportData.Main.Growth = perf.Growth
	report.DataTrustLevel = model.TrustHigh

	s.persist(ctx, report)
	s.logUsage(ctx, &model.APIUsageLog{
		ServiceName: analyticsServiceName,
		Endpoint:    analyticsEndpoint,
		StatusCode:  http.StatusOK,
	})
	return report
}

func (s *TrafficService) persist(ctx context.Context, report *model.TrafficAnalysisReport) {
	if s.store == nil {
		return
	}
	entry := &model.ReportCacheEntry{
		Domain:         report.MainDomain,
		Country:        report.Country,
		Data:           report,
		DataTrustLevel: report.DataTrustLevel,
		LastUpdated:    s.now().UTC(),
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		log.Error().Err(err).Str("domain", report.MainDomain).Str("country", report.Country).Msg("report cache write failed")
	}
}

func (s *TrafficService) logUsage(ctx context.Context, entry *model.APIUsageLog) {
	if s.usage == nil {
		return
	}
	if err := s.usage.LogUsage(ctx, entry); err != nil {
		log.Debug().Err(err).Str("service", entry.ServiceName).Msg("usage log dropped")
	}
}

// StatusError lets an analytics source report the upstream HTTP status.
type StatusError interface {
	error
	StatusCode() int
}

func statusFromError(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func flightKey(actor, domain, country string, competitors []string) string {
	sorted := append([]string(nil), competitors...)
	sort.Strings(sorted)
	return actor + "|" + domain + "|" + country + "|" + strings.Join(sorted, ",")
}
