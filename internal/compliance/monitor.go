package compliance

import (
	"context"
	"errors"
	"sync"
	"time"

	"carewatch/internal/metrics"
	"carewatch/pkg/types"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const DefaultMonitorInterval = 24 * time.Hour

type MonitorOptions struct {
	Interval time.Duration
	Location *time.Location
}

// Monitor runs the expiry scan and reminder dispatch once on start and then
// on a fixed interval. Only one scan runs at a time per Monitor, whether it
// was started by a tick, by Start, or by a manual trigger.
type Monitor struct {
	scanner    *Scanner
	dispatcher *Dispatcher
	clock      Clock
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
	opts       MonitorOptions

	mu     sync.Mutex
	state  types.MonitorState
	cron   *cron.Cron
	cancel context.CancelFunc

	// holds a token for the whole of one scan
	scanSlot chan struct{}

	lastMu sync.RWMutex
	last   *types.ScanReport
}

func NewMonitor(scanner *Scanner, dispatcher *Dispatcher, clock Clock, logger logrus.FieldLogger, m *metrics.Metrics, opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultMonitorInterval
	}
	if opts.Location == nil {
		opts.Location = clock.Location()
	}

	return &Monitor{
		scanner:    scanner,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
		metrics:    m,
		opts:       opts,
		state:      types.MonitorStopped,
		scanSlot:   make(chan struct{}, 1),
	}
}

// Start runs one scan right away in the background and schedules the rest.
// Starting a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == types.MonitorRunning {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)

	cronLog := cronLogger{logger: m.logger}
	c := cron.New(
		cron.WithLocation(m.opts.Location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	c.Schedule(cron.Every(m.opts.Interval), cron.FuncJob(func() {
		m.tick(runCtx)
	}))

	m.cron = c
	m.cancel = cancel
	m.state = types.MonitorRunning

	m.logger.WithField("interval", m.opts.Interval.String()).Info("starting compliance monitor")

	c.Start()
	go m.firstScan(runCtx)
}

// Stop cancels the schedule. A scan in flight stops at the next document and
// is not restarted. A later Start waits for it before its first scan. Stopping a stopped monitor does nothing.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != types.MonitorRunning {
		return
	}

	m.logger.Info("stopping compliance monitor")

	m.cancel()
	m.cron.Stop()

	m.cron = nil
	m.cancel = nil
	m.state = types.MonitorStopped
}

func (m *Monitor) State() types.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastReport returns the most recent completed scan, or nil before the first.
func (m *Monitor) LastReport() *types.ScanReport {
	m.lastMu.RLock()
	defer m.lastMu.RUnlock()
	return m.last
}

// RunScan performs one scan and waits for it. It returns ErrScanInProgress
// when another scan holds the monitor.
func (m *Monitor) RunScan(ctx context.Context) (*types.ScanReport, error) {
	if !m.tryAcquire() {
		return nil, types.ErrScanInProgress
	}
	defer m.releaseSlot()

	return m.scan(ctx)
}

// TriggerScan starts a scan in the background and returns once it holds the
// monitor, or ErrScanInProgress straight away.
func (m *Monitor) TriggerScan(ctx context.Context) error {
	if !m.tryAcquire() {
		return types.ErrScanInProgress
	}

	go func() {
		defer m.releaseSlot()
		if _, err := m.scan(ctx); err != nil {
			m.logger.WithError(err).Warn("triggered scan did not run")
		}
	}()

	return nil
}

func (m *Monitor) tryAcquire() bool {
	select {
	case m.scanSlot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *Monitor) releaseSlot() {
	<-m.scanSlot
}

// firstScan waits out any scan still finishing from before a restart
// instead of skipping.
func (m *Monitor) firstScan(ctx context.Context) {
	select {
	case m.scanSlot <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer m.releaseSlot()

	if _, err := m.scan(ctx); err != nil {
		m.logger.WithError(err).Debug("compliance scan not started")
	}
}

func (m *Monitor) tick(ctx context.Context) {
	_, err := m.RunScan(ctx)
	switch {
	case errors.Is(err, types.ErrScanInProgress):
		m.metrics.ObserveSkippedScan()
		m.logger.Warn("previous compliance scan still running, skipping")
	case err != nil:
		m.logger.WithError(err).Debug("compliance scan not started")
	}
}

// scan assumes the caller holds the scan slot.
func (m *Monitor) scan(ctx context.Context) (*types.ScanReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &types.ScanReport{StartedAt: m.clock.Now()}

	docs, err := m.scanner.Scan(ctx)
	if err != nil {
		report.ScanErr = err
		m.logger.WithError(err).Error("expiry scan failed, treating as no documents")
	}
	report.Scanned = len(docs)
	report.Results = m.dispatcher.DispatchAll(ctx, docs)
	report.FinishedAt = m.clock.Now()

	result := metrics.ScanCompleted
	if report.ScanErr != nil || report.Failed() > 0 {
		result = metrics.ScanDegraded
	}
	m.metrics.ObserveScan(result, report.Scanned, report.FinishedAt.Sub(report.StartedAt), report.FinishedAt)

	m.logger.WithFields(logrus.Fields{
		"scanned":     report.Scanned,
		"sent":        report.Sent(),
		"duplicates":  report.Duplicates(),
		"failed":      report.Failed(),
		"duration_ms": report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	}).Info("compliance scan finished")

	m.lastMu.Lock()
	m.last = report
	m.lastMu.Unlock()

	return report, nil
}

// cronLogger routes cron's own logging through logrus.
type cronLogger struct {
	logger logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(kvFields(keysAndValues)).WithError(err).Error(msg)
}

func kvFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
