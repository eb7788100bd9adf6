// Package main hosts the storelens entrypoint.
//
// Architecture overview:
//   - Extraction: internal/insights.Assembler drives one storefront through detection (products.json probe with a
//     homepage marker fallback), homepage fetch, catalog and hero resolution, page extractors, policy probing and
//     FAQ page probing. Only an unsupported store or an unreachable homepage is fatal; every other stage degrades to
//     an extraction note.
//   - Competitors: internal/competitor.Analyzer derives search terms (text structurer or product-type fallback),
//     matches them against a curated category directory and extracts each candidate sequentially behind the
//     golang.org/x/time/rate pacing limiter.
//   - Persistence & fanout: internal/persist.Recorder upserts contexts into the brand store (memory or Postgres),
//     archives JSON snapshots to the blob store (memory/local/GCS) and publishes a completion event (memory or
//     Pub/Sub). Sink failures are logged and counted, never returned.
//   - Configuration & plumbing: Viper loads config from an optional YAML file plus INSIGHTS_* env overrides; zap
//     provides structured logging; Prometheus collectors are exported on /metrics.
//
// Quick checklist:
//   - Serve: go run ./cmd/storelens serve --config config.yaml
//   - One shot: go run ./cmd/storelens analyze https://colourpop.com --competitors --max 2
//   - Enable the text structurer with INSIGHTS_LLM_API_KEY; persistence beyond memory needs INSIGHTS_DATABASE_DSN,
//     INSIGHTS_STORAGE_BACKEND/INSIGHTS_STORAGE_BUCKET and INSIGHTS_PUBSUB_PROJECT_ID.
package main
