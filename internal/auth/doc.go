// Package auth provides API key authentication and authorization for calorie-gateway.
//
// # API keys
//
// Every user holds at most one opaque API key. Only its fingerprint, the
// lowercase hex SHA-256 digest produced by HashAPIKey, is stored. Revoking a
// user clears the fingerprint, so the old key no longer resolves to anyone.
//
// # Authentication
//
// Authenticator reads "Authorization: Bearer <key>", hashes the key and looks
// the fingerprint up through a UserLookup. Missing or malformed headers, unknown
// keys and lookup failures all produce "no identity"; lookup failures are
// logged at warn level.
//
// # Gate
//
// Gate and Authenticator.Middleware reject unauthenticated requests with:
//
//	401 Content-Type: application/json
//	{"error":"Unauthorized. Please provide a valid API key in the Authorization header."}
//
// Authenticated requests carry an Identity{UserID, IsAdmin}, available to
// downstream handlers through FromContext. Admin checks happen in the
// operations that need them, not in the gate.
package auth
