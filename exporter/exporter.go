package exporter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360/streamkit/diagnostics"
	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/pkg/retry"
)

// Source produces the current diagnostics snapshot of a pipeline. The
// returned graph must not be mutated while the exporter encodes it;
// returning nil skips the cycle.
type Source interface {
	Snapshot() *diagnostics.PipelineDiagnostics
}

// SourceFunc adapts a plain function to the Source interface
type SourceFunc func() *diagnostics.PipelineDiagnostics

// Snapshot calls the function
func (f SourceFunc) Snapshot() *diagnostics.PipelineDiagnostics {
	return f()
}

// Publisher sends encoded snapshots to a subject. *natsclient.Client
// satisfies this.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Exporter captures, encodes, and publishes diagnostics snapshots on an
// interval
type Exporter struct {
	config    Config
	source    Source
	publisher Publisher
	logger    *slog.Logger
	sessionID string
	retryCfg  retry.Config

	stats   *Statistics
	metrics *exporterMetrics

	// Lifecycle management
	shutdown    chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	running     bool
	mu          sync.RWMutex
	lifecycleMu sync.Mutex
	wg          sync.WaitGroup
}

// New creates an exporter from configuration
func New(config Config, source Source, publisher Publisher, opts ...Option) (*Exporter, error) {
	if source == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Exporter", "New", "source is required")
	}
	if publisher == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Exporter", "New", "publisher is required")
	}

	options := applyOptions(opts)

	e := &Exporter{
		config:    config,
		source:    source,
		publisher: publisher,
		logger:    options.logger,
		sessionID: uuid.NewString(),
		retryCfg:  options.retry,
		stats:     NewStatistics(),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	if options.registry != nil {
		m, err := newExporterMetrics(options.registry)
		if err != nil {
			return nil, errors.WrapFatal(err, "Exporter", "New", "register metrics")
		}
		e.metrics = m
	}

	return e, nil
}

// SessionID returns the identifier for this exporter run
func (e *Exporter) SessionID() string {
	return e.sessionID
}

// Stats returns the exporter's runtime statistics
func (e *Exporter) Stats() *Statistics {
	return e.stats
}

// Initialize validates the configuration
func (e *Exporter) Initialize() error {
	if err := e.config.Validate(); err != nil {
		return errors.WrapInvalid(err, "Exporter", "Initialize", "config validation")
	}
	return nil
}

// Start begins the capture loop
func (e *Exporter) Start(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.isRunning() {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Exporter", "Start", "check running state")
	}

	e.wg.Add(1)
	go e.captureLoop(ctx)

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.logger.Info("diagnostics exporter started",
		"session_id", e.sessionID,
		"subject", e.config.Subject,
		"interval", e.config.Interval)

	return nil
}

// Stop gracefully stops the exporter
func (e *Exporter) Stop(timeout time.Duration) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if !e.isRunning() {
		return nil
	}

	close(e.shutdown)

	waitCh := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
	case <-time.After(timeout):
		return errors.WrapTransient(errors.ErrShuttingDown, "Exporter", "Stop", "wait for capture loop")
	}

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	e.closeOnce.Do(func() {
		close(e.done)
	})

	e.logger.Info("diagnostics exporter stopped",
		"session_id", e.sessionID,
		"exports", e.stats.Exports())

	return nil
}

func (e *Exporter) isRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

func (e *Exporter) captureLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.shutdown:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.exportOnce(ctx)
		}
	}
}

// ExportNow captures and publishes a single snapshot outside the
// interval schedule.
func (e *Exporter) ExportNow(ctx context.Context) error {
	return e.exportOnce(ctx)
}

func (e *Exporter) exportOnce(parent context.Context) error {
	root := e.source.Snapshot()
	if root == nil {
		e.stats.RecordSkip()
		return nil
	}

	data, err := diagnostics.Marshal(root)
	if err != nil {
		e.stats.RecordError()
		if e.metrics != nil {
			e.metrics.recordError()
		}
		e.logger.Error("snapshot encode failed",
			"session_id", e.sessionID,
			"error", err)
		return errors.WrapInvalid(err, "Exporter", "exportOnce", "encode snapshot")
	}

	ctx, cancel := context.WithTimeout(parent, e.config.PublishTimeout)
	defer cancel()

	err = retry.Do(ctx, e.retryCfg, func() error {
		return e.publisher.Publish(ctx, e.config.Subject, data)
	})
	if err != nil {
		e.stats.RecordError()
		if e.metrics != nil {
			e.metrics.recordError()
		}
		e.logger.Error("snapshot publish failed",
			"session_id", e.sessionID,
			"subject", e.config.Subject,
			"error", err)
		return errors.WrapTransient(err, "Exporter", "exportOnce", "publish snapshot")
	}

	e.stats.RecordExport(len(data))
	if e.metrics != nil {
		e.metrics.recordExport(len(data))
	}
	e.logger.Debug("snapshot published",
		"session_id", e.sessionID,
		"subject", e.config.Subject,
		"size_bytes", len(data))

	return nil
}
