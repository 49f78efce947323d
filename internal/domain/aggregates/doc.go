// Package aggregates defines domain-facing aggregate contracts for the
// marking subsystem.
//
// Contracts avoid persistence/transport detail and name the semantic write
// boundaries where invariants must hold atomically.
package aggregates
