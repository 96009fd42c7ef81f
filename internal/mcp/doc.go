// Package mcp implements the Model Context Protocol endpoint of the calorie gateway.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over the Streamable HTTP transport on a
// single path:
//
//   - POST /mcp - initialize, ping, tools/list, tools/call, notifications
//   - DELETE /mcp - terminate the session named by Mcp-Session-Id
//   - GET /mcp - 405, server-initiated streams are not offered
//
// # Authentication
//
// The server does no credential checks of its own. It is mounted behind the
// authorization gate, which resolves the bearer API key and stores an
// auth.Identity in the request context.
//
// # Sessions
//
// initialize returns an Mcp-Session-Id that later requests must echo. Sessions
// are bound to the user that created them; a session id presented by anyone
// else is answered with 404, the same as an unknown one. Two backends exist:
//
//   - SignedSessions: HS256 tokens, stateless, cannot be terminated early
//   - RedisSessions: TTL'd keys with sliding expiry, DELETE supported
//
// # Tool Execution
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "add_entry",
//	    "arguments": {"food_name": "Banana", "calories": 105}
//	  },
//	  "id": 2
//	}
//
// Tool failures are results with isError set, not JSON-RPC errors. JSON-RPC
// errors are reserved for malformed requests and unknown tools.
package mcp
