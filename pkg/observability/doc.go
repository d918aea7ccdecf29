// Package observability turns simulator lifecycle events into Prometheus
// metrics and structured log lines.
package observability
