package station

import (
	"log/slog"
	"sync"

	"eventops/internal/platform/metrics"
	"eventops/internal/redemption/dedupe"
)

// CacheFactory builds the dedupe cache for a new station. Each station gets
// its own cache so one station's suppression window never hides another
// station's scans.
type CacheFactory func(stationID string) dedupe.Cache

// Manager hands out the controller for a station id, creating it on first
// use. Controllers live for the process lifetime; the count is bounded by
// the number of physical stations.
type Manager struct {
	redeemer Redeemer
	resolver PlanResolver
	caches   CacheFactory
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	stations map[string]*Station
}

func NewManager(redeemer Redeemer, resolver PlanResolver, caches CacheFactory, m *metrics.Metrics, logger *slog.Logger) *Manager {
	if caches == nil {
		caches = func(string) dedupe.Cache { return dedupe.NewMemoryCache() }
	}
	return &Manager{
		redeemer: redeemer,
		resolver: resolver,
		caches:   caches,
		metrics:  m,
		logger:   logger,
		stations: make(map[string]*Station),
	}
}

// Get returns the controller for the given station id.
func (m *Manager) Get(stationID string) *Station {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stations[stationID]; ok {
		return st
	}
	st := New(stationID, m.redeemer, m.resolver, m.caches(stationID), m.metrics, m.logger)
	m.stations[stationID] = st
	return st
}
