package activity

import (
	"context"
	"encoding/json"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/telemetry/metrics"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	statsCacheKey       = "action-log-stats"
	statsCacheSize      = 1024 * 1024
	DefaultStatsTTLSecs = 60
)

type statsAPI interface {
	ActionLogStats(ctx context.Context) ([]remote.HourStat, error)
}

// StatsSource serves the action log stats, cached for a short while. The stats
// are the same for every operator, but a request without a session token is
// never answered from the cache.
type StatsSource struct {
	api            statsAPI
	tokens         remote.SessionProvider
	cache          *freecache.Cache
	ttlSeconds     int
	metricsManager *metrics.Manager
}

func NewStatsSource(api statsAPI, tokens remote.SessionProvider, ttlSeconds int, metricsManager *metrics.Manager) *StatsSource {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultStatsTTLSecs
	}
	return &StatsSource{
		api:            api,
		tokens:         tokens,
		cache:          freecache.NewCache(statsCacheSize),
		ttlSeconds:     ttlSeconds,
		metricsManager: metricsManager,
	}
}

func (s *StatsSource) Stats(ctx context.Context) ([]remote.HourStat, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "statsSource.stats")
	defer span.End()

	if _, ok := s.tokens.Token(ctx); !ok {
		return nil, remote.ErrMissingToken
	}

	if statsBytes, err := s.cache.Get([]byte(statsCacheKey)); err == nil {
		var stats []remote.HourStat
		if err := json.Unmarshal(statsBytes, &stats); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.countLookup("hit")
			return stats, nil
		} else {
			log.Errorf("failed to unmarshal cached action log stats: %s", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	s.countLookup("miss")

	stats, err := s.api.ActionLogStats(ctx)
	if err != nil {
		return nil, err
	}

	statsBytes, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal action log stats for cache: %s", err)
		return stats, nil
	}
	if err := s.cache.Set([]byte(statsCacheKey), statsBytes, s.ttlSeconds); err != nil {
		log.Errorf("failed to write action log stats cache: %s", err)
	}

	return stats, nil
}

func (s *StatsSource) countLookup(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterStatsCache.WithLabelValues(result).Inc()
	}
}
