// Package exporter periodically captures a diagnostics snapshot of a
// running pipeline, encodes it with the diagnostics wire format, and
// publishes the bytes over NATS.
//
// The exporter is a lifecycle component: construct it with New, call
// Initialize to validate configuration, Start to begin the capture loop,
// and Stop to shut it down gracefully. Each running exporter carries a
// session ID so consumers can distinguish restarts of the same pipeline
// from one continuous run.
//
// The published payload is exactly the output of diagnostics.Marshal;
// the exporter adds no envelope. Subscribers feed the bytes straight to
// diagnostics.Unmarshal.
package exporter
