// Copyright (c) 2025 The election-backend authors.

/*
Package metrics exposes Prometheus counters for the HTTP API and for
election events.

	m := metrics.New()
	mux.HandleFunc("GET /results", m.Instrument("GET /results", h.GetResults))
	mux.Handle("GET /metrics", m.Handler())

Series:

  - http_requests_total{route,method,status}
  - http_request_duration_seconds{route}
  - business_events_total{action,outcome}, outcome being election.Kind of the error

Go runtime and process collectors are registered as well.
*/
package metrics
