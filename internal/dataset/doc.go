// Package dataset implements the candidate data pipeline: CSV row
// normalization, score parsing with sentinel handling, competitive ranking
// and the load/store lifecycle of the in-memory collection.
//
// The pipeline is deliberately total below the load step. Fetching or a
// structurally broken CSV fails once, visibly; a missing column or an
// unparseable score inside a well-formed row never does, it resolves to an
// empty string or the unscored sentinel instead.
package dataset
