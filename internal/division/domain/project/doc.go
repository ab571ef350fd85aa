// Package project defines the core types for a collective real-estate
// division project: the single mutable Context aggregate, participants,
// lots, sales, and the legal milestone record.
//
// The Context is owned exclusively by the lifecycle state machine. All
// other packages read it as an immutable value or through deep-copied
// snapshots.
package project
