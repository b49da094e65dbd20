// Package main implements streamkit-diag, a monitor for pipeline
// diagnostics snapshots. It subscribes to the configured NATS subject,
// decodes each snapshot, and reports pipeline health through structured
// logs and Prometheus counters.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/config"
	"github.com/c360/streamkit/diagnostics"
	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/natsclient"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "streamkit-diag"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("monitor failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("configuration is valid")
		return nil
	}

	registry := metric.NewRegistry()
	mon, err := newMonitor(logger, registry)
	if err != nil {
		return fmt.Errorf("create monitor: %w", err)
	}

	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	natsClient, err := createNATSClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("create NATS client: %w", err)
	}
	if err := natsClient.Connect(signalCtx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer func() { _ = natsClient.Close(context.Background()) }()

	if err := natsClient.Subscribe(signalCtx, cfg.Exporter.Subject, mon.handleSnapshot); err != nil {
		return fmt.Errorf("subscribe to %s: %w", cfg.Exporter.Subject, err)
	}

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() { _ = metricsServer.Stop() }()
		slog.Info("metrics server started", "address", metricsServer.Address())
	}

	slog.Info("monitor started",
		"subject", cfg.Exporter.Subject,
		"nats_url", cfg.NATS.URL)

	<-signalCtx.Done()
	slog.Info("received shutdown signal")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path == "" {
		return loader.Load()
	}
	return loader.LoadFile(path)
}

func createNATSClient(cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	opts := []natsclient.ClientOption{
		natsclient.WithName(cfg.NATS.Name),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithReconnectWait(cfg.NATS.ReconnectWait.Std()),
		natsclient.WithLogger(logger),
	}
	if cfg.NATS.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.NATS.Username, cfg.NATS.Password))
	}
	if cfg.NATS.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.NATS.Token))
	}
	return natsclient.NewClient(cfg.NATS.URL, opts...)
}

// monitor decodes incoming snapshots and tracks counters
type monitor struct {
	logger *slog.Logger

	snapshots    prometheus.Counter
	decodeErrors prometheus.Counter
	bytes        prometheus.Counter
	elements     prometheus.Gauge
}

func newMonitor(logger *slog.Logger, registry *metric.Registry) (*monitor, error) {
	m := &monitor{
		logger: logger,
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "monitor",
			Name:      "snapshots_total",
			Help:      "Total number of snapshots decoded",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "monitor",
			Name:      "decode_errors_total",
			Help:      "Total number of snapshots that failed to decode",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "monitor",
			Name:      "bytes_total",
			Help:      "Total snapshot bytes received",
		}),
		elements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "streamkit",
			Subsystem: "monitor",
			Name:      "pipeline_elements",
			Help:      "Element count in the most recent snapshot",
		}),
	}

	if err := registry.RegisterCounter("monitor", "snapshots", m.snapshots); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("monitor", "decode_errors", m.decodeErrors); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("monitor", "bytes", m.bytes); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge("monitor", "pipeline_elements", m.elements); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *monitor) handleSnapshot(_ context.Context, data []byte) {
	m.bytes.Add(float64(len(data)))

	root, err := diagnostics.Unmarshal(data)
	if err != nil {
		m.decodeErrors.Inc()
		m.logger.Error("snapshot decode failed",
			"size_bytes", len(data),
			"error", err)
		return
	}
	m.snapshots.Inc()

	if root == nil {
		m.logger.Debug("empty snapshot received")
		return
	}

	sum := summarize(root)
	m.elements.Set(float64(sum.elements))

	m.logger.Info("snapshot received",
		"pipeline", root.Name,
		"running", root.IsRunning,
		"pipelines", sum.pipelines,
		"elements", sum.elements,
		"processed", sum.processed,
		"dropped", sum.dropped,
		"throttled", sum.throttled,
		"size_bytes", len(data))
}

// summary aggregates counters across a pipeline and its subpipelines
type summary struct {
	pipelines int
	elements  int
	processed int64
	dropped   int64
	throttled int
}

func summarize(root *diagnostics.PipelineDiagnostics) summary {
	var sum summary
	visited := make(map[int32]bool)
	walk(root, visited, &sum)
	return sum
}

func walk(p *diagnostics.PipelineDiagnostics, visited map[int32]bool, sum *summary) {
	if p == nil || visited[p.ID] {
		return
	}
	visited[p.ID] = true
	sum.pipelines++

	for _, el := range p.Elements {
		if el == nil {
			continue
		}
		sum.elements++
		for _, rc := range el.Receivers {
			if rc == nil {
				continue
			}
			sum.processed += int64(rc.ProcessedCount)
			sum.dropped += int64(rc.DroppedCount)
			if rc.Throttled {
				sum.throttled++
			}
		}
	}

	for _, sub := range p.Subpipelines {
		walk(sub, visited, sum)
	}
}
