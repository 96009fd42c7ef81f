// Package tracker implements the calorie tracking operations behind the MCP tools.
//
// # Profiles and tracking
//
// A profile holds height, age, gender and activity level. Measurements
// (weight, muscle mass, body fat) live in one tracking row per user per
// calendar day. UpdateProfile creates the profile on first use, merges
// measurements into today's row and stores BMR/TDEE whenever the row has a
// weight. GetProfile recomputes BMR/TDEE for the latest row and writes them
// back when the stored values are stale.
//
// "Today" is the current date in the configured location, UTC by default.
//
// # Errors
//
// Failures are *Error values with a Kind (validation, forbidden, not found,
// conflict, unavailable, storage) and a message that is safe to show to the
// caller. Storage errors are logged with their cause and reported as
// "Failed to <action>. Please try again."
package tracker
