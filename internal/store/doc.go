// Package store provides a SQLite-backed run log for QACO engine calls.
//
// Every Solve, BindingSpace and Validate call can be appended as one row of
// the runs table, with its outcome and, on failure, the violated rule.
//
// # Ordering
//
//   - Rows carry created_seq, a logical sequence assigned on insert
//   - Queries order by created_seq, then id COLLATE BINARY, never by wall time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - Single connection: SQLite allows one writer
package store
