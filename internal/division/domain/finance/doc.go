// Package finance provides the pure financial calculators of the division
// project: yearly indexation, ownership quotité, monthly carrying costs,
// and the loan-tranche split. All functions are side-effect-free and safe
// for concurrent callers.
package finance
