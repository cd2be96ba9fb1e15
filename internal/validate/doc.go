// Package validate checks QACO problems and strategy output for well-formedness.
//
// Two families of checks live here:
//
// Structural checks look at shape only: a composite service must declare
// tasks and candidate services with non-blank names, and its graph (when
// present) must have START and END nodes. Strategy output must contain
// non-empty bindings whose mappings reference both a task and a service.
//
// Referential checks walk the optimization model and the constraint tree and
// prove that every Feature and Task they mention is declared by the composite
// service the problem is paired with. Membership is by value equality, so two
// independently built Task{Name: "X"} values are the same task.
//
// Every check fails fast: the first violation found in declaration order is
// returned as an *Error and nothing after it is inspected. The traversal is
// deterministic, so the same input always reports the same first violation.
//
// Validation never mutates its input and holds no state between calls, so
// all functions are safe for concurrent use on distinct inputs. Constraint
// trees are assumed acyclic; a cyclic tree recurses without bound.
package validate
