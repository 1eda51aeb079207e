package manager

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCapacityExhausted is returned by Acquire when no process slot frees up
// within the queue timeout.
var ErrCapacityExhausted = errors.New("prediction capacity exhausted")

// Metrics holds the queued and running process counts.
type Metrics struct {
	QueueSize       int
	ProcessingCount int
	LastLogTime     time.Time
	changed         bool
	mu              sync.Mutex
}

// ConcurrencyManager bounds how many prediction processes run at once.
// A zero limit means unbounded; counts are still tracked and logged.
type ConcurrencyManager struct {
	sem          chan struct{}
	queueTimeout time.Duration
	metrics      *Metrics
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewConcurrencyManager creates a manager allowing limit concurrent processes.
// queueTimeout bounds the wait for a slot; zero waits until the caller's
// context is done.
func NewConcurrencyManager(limit int, queueTimeout time.Duration) *ConcurrencyManager {
	cm := &ConcurrencyManager{
		queueTimeout: queueTimeout,
		metrics:      &Metrics{},
		done:         make(chan struct{}),
	}
	if limit > 0 {
		cm.sem = make(chan struct{}, limit)
	}

	go cm.monitorMetrics()

	return cm
}

// Acquire waits for a process slot. The returned release func must be called
// exactly once when the process has finished.
func (cm *ConcurrencyManager) Acquire(ctx context.Context) (func(), error) {
	if cm.sem == nil {
		cm.metrics.incrementProcessing()
		return cm.metrics.decrementProcessing, nil
	}

	cm.metrics.incrementQueue()

	var timeout <-chan time.Time
	if cm.queueTimeout > 0 {
		timer := time.NewTimer(cm.queueTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case cm.sem <- struct{}{}:
		cm.metrics.incrementProcessing()
		cm.metrics.decrementQueue()

		return func() {
			cm.metrics.decrementProcessing()
			<-cm.sem
		}, nil
	case <-timeout:
		cm.metrics.decrementQueue()
		return nil, ErrCapacityExhausted
	case <-ctx.Done():
		cm.metrics.decrementQueue()
		return nil, ctx.Err()
	}
}

// Snapshot returns the current queued and running counts.
func (cm *ConcurrencyManager) Snapshot() (queued, running int) {
	cm.metrics.mu.Lock()
	defer cm.metrics.mu.Unlock()
	return cm.metrics.QueueSize, cm.metrics.ProcessingCount
}

// monitorMetrics logs the counts at most once per second when they change.
func (cm *ConcurrencyManager) monitorMetrics() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cm.done:
			return
		case now := <-ticker.C:
			m := cm.metrics
			m.mu.Lock()
			if m.changed && now.Sub(m.LastLogTime) >= time.Second {
				log.Infof("Queued: %d | Running: %d", m.QueueSize, m.ProcessingCount)
				m.LastLogTime = now
				m.changed = false
			}
			m.mu.Unlock()
		}
	}
}

// Shutdown stops the metrics monitor. Slots already held stay valid.
func (cm *ConcurrencyManager) Shutdown() {
	cm.shutdownOnce.Do(func() {
		close(cm.done)
	})
}

func (m *Metrics) incrementQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueSize++
	m.changed = true
}

func (m *Metrics) decrementQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueueSize > 0 {
		m.QueueSize--
		m.changed = true
	}
}

func (m *Metrics) incrementProcessing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessingCount++
	m.changed = true
}

func (m *Metrics) decrementProcessing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProcessingCount > 0 {
		m.ProcessingCount--
		m.changed = true
	}
}
