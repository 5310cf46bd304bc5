// Package rsutax computes the French tax declaration of RSU (free shares) sales
// for one fiscal year.
//
// The computation is a pipeline of pure functions over immutable records:
//   - Classify splits each line's acquisition gain at the yearly threshold and
//     computes its capital gain or loss. Lines consume the threshold in the
//     export order.
//   - ReliefRate averages the holding-period relief rates of the lines,
//     weighted by their acquisition gain below the threshold, and ApplyRelief
//     applies that single rate.
//   - Net deducts a line's capital loss from its own relieved acquisition
//     gain. Any excess loss is discarded.
//   - Aggregate sums the lines into a YearlyAggregate, from which Estimate
//     derives a TaxEstimate and Instructions the form boxes to fill.
//
// NewDeclaration chains all the stages. Regime constants change every year and
// are read from a versioned table, see DefaultRegimes and LoadRegimes.
//
// Amounts are exact decimals: nothing is rounded during the computation. The
// tax administration rounds to the euro, so the declared figures may differ
// from the computed ones by a few euros. This is expected.
package rsutax
