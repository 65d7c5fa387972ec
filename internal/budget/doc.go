// Package budget combines independent error sources into a total.
//
//   - [RSS]: root sum of squares, for independent random sources
//   - [WorstCase]: sum of magnitudes, an upper bound
//   - [MonteCarlo]: sampled distribution of the summed error
//   - [CreateBudget]: both laws against a target, with recommendations
//
// For two or more non-zero sources RSS is strictly below the worst case.
// All values in one call must share a unit.
package budget
