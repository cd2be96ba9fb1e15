// Package ir provides the domain model for QACO problems.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the domain model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Task and Feature identity is value equality, never pointer identity
//   - Constraint is a closed union; only the five variants declared here
//     implement it
//   - All JSON tags use snake_case
//   - Nothing in this package mutates a value it is handed
package ir
