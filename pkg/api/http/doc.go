// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - File analysis (POST /analyze)
//   - Health checks (GET /health)
//   - Prometheus metrics (GET /metrics)
//
// Request bodies are bound and validated by gin before reaching the
// analysis service. Missing, null or non-string fields are answered with
// 422; bodies that are not JSON at all with 400.
package http
