// Package store provides persistent storage for calorie-gateway using SQLite.
//
// # Architecture
//
// Storage is split into small interfaces that the tracker and auth packages
// depend on:
//
//   - UserStore: accounts, roles and API key fingerprints
//   - ProfileStore: body attributes and the latest-tracking view
//   - TrackingStore: the per-day measurement series
//   - FoodEntryStore: the food log
//
// SQLiteStore implements all of them in one struct; Store composes them.
//
// # Ownership
//
// Every statement that reads or mutates user data carries user_id in its
// WHERE clause. A row owned by another user looks exactly like a missing row
// and yields ErrNotFound.
//
// # Tracking rows
//
// profile_tracking has a UNIQUE(user_id, recorded_date) index. RecordTracking
// uses INSERT ... ON CONFLICT DO UPDATE so concurrent same-day writes merge into
// one row instead of racing a read-then-write.
//
// # SQLite Configuration
//
// WAL journaling, foreign keys and a busy timeout are enabled on every
// connection. Timestamps are stored as RFC3339 text in UTC; calendar dates as
// YYYY-MM-DD text.
//
// # Testing
//
// NewMockStore returns an in-memory Store with FailOn for error injection and
// Calls for asserting which queries ran.
package store
