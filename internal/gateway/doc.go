// Package gateway assembles the calorie-gateway server.
//
// # Overview
//
// New wires the SQLite store, the tracker service, the tool registry, the MCP
// server, the MCP session backend (signed tokens or Redis) and the domain
// event publisher (RabbitMQ or a no-op) from a validated config.Config.
//
// # HTTP surface
//
//   - GET /health - liveness, no authentication
//   - /mcp - MCP Streamable HTTP endpoint, behind the authorization gate
//   - anything else - informational JSON, behind the authorization gate
//
// CORS is enabled when server.allowed_origins is set, so browser MCP clients
// can read the Mcp-Session-Id header.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	err = gw.Run(ctx) // blocks until ctx is canceled
//
// Run listens on server.http_addr, or joins the tailnet with tsnet when
// tailscale.enabled is set, and shuts everything down when ctx ends.
package gateway
