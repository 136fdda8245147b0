// Package watch evaluates named cron rules against the wall clock.
//
// # Overview
//
// Each rule pairs a name with a cron expression (see pkg/cronexpr) and an
// optional IANA time zone. A ticker (default 1s) asks the match engine
// "does this instant satisfy the rule" for every rule; a hit is counted,
// logged, kept in a bounded in-memory history ring, and appended to
// storage when a store is configured.
//
// # Hard match errors
//
// The engine can fail hard on an impossible day-of-month/month pairing
// instead of returning false. The service logs such failures, records them
// in history and storage, and keeps evaluating the other rules.
//
// # Lifecycle
//
// The Service can be started/stopped at runtime and supports Apply() for
// config hot reload: the new rule set is compiled first and only swapped
// in when every expression compiles.
package watch
