// Package tools exposes tracker operations as MCP tools.
//
// Each tool has a JSON schema advertised through tools/list and a handler
// that decodes and validates its arguments before calling into the tracker.
// Handlers never return Go errors: every failure becomes a Result with
// IsError set and a message that is safe to show to the caller.
package tools
