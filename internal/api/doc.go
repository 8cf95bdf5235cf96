// Package api hosts the HTTP server, middleware, and REST handlers for the
// comments service. Notable routes:
//   - GET /comments/{steamId} and its /api/comments/{steamId} alias return the
//     profile comments for a SteamID64 or vanity alias, 404 when none exist.
//   - GET /healthz / readyz for liveness and readiness probes.
//   - GET /metrics for Prometheus scraping.
package api
