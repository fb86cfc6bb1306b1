// Package errors provides structured, actionable errors for memodom tooling.
//
// Every error carries a code (e.g. "M030") registered with a category, a
// short message, a longer explanation and a documentation URL. Config
// errors can also carry the file location that caused them, in which case
// Format prints the surrounding lines of the file.
//
// # Categories
//
//   - driver: render cycle failures (poisoned driver, component type mismatch)
//   - surface: executor failures while applying change lists
//   - protocol: wire frame decoding and session sequencing
//   - journal: bundle parsing and archive upload
//   - config: memodom.json / memodom.yaml loading and validation
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("M031").
//	    WithLocation("memodom.yaml", 4, 3).
//	    WithSuggestion("Use a duration such as \"10s\"")
//
//	errors.Fprint(os.Stderr, err, errors.OutputText)
//
// Fprint also renders the one-line and JSON forms used by the CLI's
// --output flag; SetColor(false) backs --no-color.
package errors
