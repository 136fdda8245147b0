package storage

// Package storage persists schedule match records so that rule activity
// survives restarts.
//
// It currently supports:
//   - Append-only match records (rule name, expression, instant)
//   - Recent-match queries per rule (for snapshots/inspection)
