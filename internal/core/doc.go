// Package core converts race result files into SQL insert scripts.
//
// This package contains all conversion logic independent of any transport
// layer. It is used by the CLI, the HTTP server, and tests without
// modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Variants: registered via the registry, each variant declares its
//     sections, target tables, stage filter, and data correction rules.
//   - Reading: files are decoded as UTF-8 (a leading BOM is dropped), parsed
//     as CSV, and bound to named fields by position.
//   - Deduplication: a [RunState] per run remembers the first occurrence of
//     every entity key and records later occurrences that disagree.
//   - Emission: an [Emitter] renders records into ordered [Section] groups of
//     INSERT statements that form a [Script].
//
// # Variant Registry
//
// Variants are registered at init time using [Register]:
//
//	core.Register(core.Variant{
//	    Name:          "full",
//	    NullEmptyInts: true,
//	    Sections: []core.SectionSpec{
//	        {Kind: core.KindCountry, Header: "Insert Countries", Table: countryTable},
//	        {Kind: core.KindResult, Header: "Insert Results", Table: resultTable},
//	    },
//	})
//
// # Conversion
//
// [Job.Run] reads both files, calls [Convert], and writes the script
// atomically. [Preview] runs the same pipeline without writing and adds
// advisory row validation.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB009: Database errors raised while verifying or applying a script
//   - VAL001-VAL007: Data problems (formats, missing columns, conflicts)
//   - FILE001-FILE007: File errors (size, encoding, format, missing)
//   - CNV001-CNV005: Variant, rules and option setup
//   - UPL002-UPL005: Throughput and cancellation
package core
