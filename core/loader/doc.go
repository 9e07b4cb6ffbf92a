// Package loader reads the per-algorithm result tables produced by the
// scheduler simulators and merges them into a single model.Table.
//
// Sources are attempted in configuration order. A blank path disables a
// source; a path that does not exist or cannot be parsed is skipped with an
// advisory. Only a pass that loads no rows at all fails, with ErrNoDataLoaded.
package loader
