// Package check cross-checks the abstract interpreter against the concrete
// oracle.
//
// A program is sound for an initial memory when, after both semantics ran,
// every variable the program mentions holds a concrete value whose sign is
// included by the abstract result. Runs the oracle cannot finish (step limit,
// overflow) are Inconclusive rather than sound or unsound.
//
// Generator produces random well-formed programs for property testing and
// Campaign aggregates many checks into a BatchReport.
package check
