// Package app wires the LAS Analyzer server together and manages its lifecycle.
//
// NewApplication loads configuration, initializes logging and OpenTelemetry, opens the
// database and the archive, starts the WebSocket hub and builds the chi router:
//
//	RequestID → RealIP → /ws (event feed) and /metrics
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer → SecurityHeaders → CORS
//	→ RateLimiter → /api/... (per-group Timeout)
//
// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts the server,
// hub, archive, database and telemetry down in that order. Initialization errors are
// returned to the caller; the package never calls os.Exit.
package app
