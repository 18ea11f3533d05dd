// Package metrics provides Prometheus metrics for the gateway.
//
// A Collector owns its own registry and records completion counts and
// latencies, session resets, and busy-policy rejections. It satisfies
// the gateway's Metrics interface directly:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	gw, err := gateway.New(ctx, prov, cfg, gateway.WithMetrics(collector))
//	mux.Handle("/metrics", collector.Handler())
//
// All metrics share a configurable namespace (default "fmserver").
package metrics
