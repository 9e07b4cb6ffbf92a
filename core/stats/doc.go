// Package stats computes the per-algorithm aggregates shown by the dashboard:
// mean metrics and process counts (Compare), best-of selection (Summarize),
// and Pearson correlation matrices with their derived views (Correlate).
//
// All functions are pure: the same table always yields bit-identical output.
package stats
