package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Monitor periodically probes the backend and the token store. It only
// observes; nothing is retried on its behalf.
type Monitor struct {
	backend Pinger
	store   Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(backend, store Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		backend:  backend,
		store:    store,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger,
	}
}

// Start probes once right away and then on every interval.
func (m *Monitor) Start() {
	spec := "@every " + m.interval.String()
	if _, err := m.cron.AddFunc(spec, m.refresh); err != nil {
		m.logger.Error("monitor schedule rejected", zap.String("spec", spec), zap.Error(err))
		return
	}
	go m.refresh()
	m.cron.Start()
}

// Stop waits for a running probe to finish.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		<-m.cron.Stop().Done()
	})
}

// IsOnline reports whether the backend answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Backend
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check runs one probe round synchronously and returns its result.
func (m *Monitor) Check(ctx context.Context) Status {
	backendErr := probe(ctx, m.backend, 3*time.Second)
	storeErr := probe(ctx, m.store, 2*time.Second)

	status := Status{
		Backend:   backendErr == nil,
		Store:     storeErr == nil,
		LastCheck: time.Now(),
	}
	if backendErr != nil {
		status.BackendErr = backendErr.Error()
	}
	if storeErr != nil {
		status.StoreErr = storeErr.Error()
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if prev.Checked() && prev.Backend != status.Backend {
		m.logger.Warn("backend reachability changed", zap.Bool("online", status.Backend))
	}
	return status
}

func (m *Monitor) refresh() {
	m.Check(context.Background())
}

func probe(ctx context.Context, p Pinger, timeout time.Duration) error {
	if p == nil {
		return errNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Ping(ctx)
}
