// Package store provides SQLite-backed durable storage for OCED event
// logs.
//
// The store mirrors one model's event log as an append-only table:
//   - Events: one row per committed event, keyed by the model-assigned id
//   - Meta: store identity (store_id, created_at)
//
// # Critical Patterns
//
// Append-Only Rows
//   - Rows are immutable once written; there is no UPDATE or DELETE path
//   - Re-appending an existing event id verifies the stored row instead
//     of overwriting it, so divergent histories fail loudly
//
// Logical Identity and Order
//   - All ordering uses event_id INTEGER (the model's logical clock)
//   - Event timestamps are opaque text used only for range filters
//
// Canonical Payloads
//   - attributes and qualifiers columns hold RFC 8785 canonical JSON
//   - Byte equality on these columns is semantic equality
//
// Load-By-Replay
//   - LoadModel replays the stored rows through the model's own
//     validation instead of trusting the table contents
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
