// Package gateway wires the sverigesradio-mcp server components together.
//
// # Overview
//
// A Gateway owns one srclient.Client, the tool registry built on top of it,
// the MCP dispatcher and, for HTTP mode, the net/http server and Prometheus
// registry. It serves either over stdio (RunStdio) or over HTTP (Run).
//
// # HTTP Routes
//
//	POST|DELETE /mcp     Streamable HTTP transport
//	GET  /sse            SSE transport stream
//	POST /messages       SSE transport inbound messages
//	GET  /health         liveness
//	GET  /health/ready   readiness with tool count and cache stats
//	GET  /cache/stats    {"total","valid","expired"}
//	DELETE /cache        empties the response cache
//	GET  /metrics        Prometheus exposition (when metrics are enabled)
//
// # Lifecycle
//
// Run blocks until its context is canceled and then shuts the HTTP server
// down with a five second deadline.
package gateway
