/*
Package monitoring provides Prometheus metrics for the desktop service.

# Overview

Metrics cover HTTP traffic, desktop sessions and window operations, and the
paint relay (connections, accepted and rejected segments, dropped frames,
retained history). A nil *Metrics is a valid no-op collector, so domain
packages can record unconditionally.

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

Tests should pass a fresh prometheus.NewRegistry() to avoid duplicate
registration panics.
*/
package monitoring
