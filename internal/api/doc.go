// Package api hosts the HTTP server, middleware, and REST handlers.
// Notable routes:
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/features reports which optional capabilities are configured.
//   - POST /v1/analyze extracts insights for one storefront.
//   - POST /v1/analyze/competitors adds competitor discovery.
//   - GET /v1/brands?url= returns the last stored analysis.
//
// Every JSON response uses the envelope {success, message, data, error_code}.
package api
