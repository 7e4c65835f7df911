package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// MultiSourceManager holds the registered price sources and forwards requests
// to the active one. It satisfies IPriceDataSource itself.
type MultiSourceManager struct {
	Sources map[string]interfaces.IPriceDataSource
	Logger  *logger.Logger
	active  string
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMultiSourceManager(sources []interfaces.IPriceDataSource, log *logger.Logger) *MultiSourceManager {
	m := &MultiSourceManager{
		Sources: make(map[string]interfaces.IPriceDataSource),
		Logger:  log.Named("MultiSourceManager"),
	}

	for _, s := range sources {
		m.Sources[s.Name()] = s
		if m.active == "" {
			m.active = s.Name()
		}
	}

	return m
}

// -----------------------------------------------------------------------------

// AddSource registers a new source
func (m *MultiSourceManager) AddSource(source interfaces.IPriceDataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.Sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}

	m.Sources[name] = source
	if m.active == "" {
		m.active = name
	}
	m.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// SourceNames lists the registered sources alphabetically
func (m *MultiSourceManager) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// SetActive selects the source that serves FetchDailyBars
func (m *MultiSourceManager) SetActive(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sources[name]; !exists {
		return fmt.Errorf("source %s not found", name)
	}
	m.active = name
	m.Logger.Info("Active source: %s", name)
	return nil
}

// Active returns the name of the active source
func (m *MultiSourceManager) Active() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// -----------------------------------------------------------------------------

// Name returns "MultiSourceManager"
func (m *MultiSourceManager) Name() string {
	return "MultiSourceManager"
}

// -----------------------------------------------------------------------------

// FetchDailyBars delegates to the active source
func (m *MultiSourceManager) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error) {
	m.mu.RLock()
	source, exists := m.Sources[m.active]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no active data source")
	}
	return source.FetchDailyBars(ctx, symbol, start, end)
}
