// Package core provides the business logic for roster imports.
//
// This package has no UI or transport dependencies. Web handlers, the CLI and
// tests all drive it through the same entry points.
//
// # Pipeline
//
// An import is a chain of pure stages:
//
//	bytes -> text -> rows -> outcomes -> summary
//
// The stages are:
//
//  1. [DecodeText] recovers text from the raw upload (UTF-8, then
//     Windows-1252, then Latin-1). Workbooks are read with [ReadWorkbookRows].
//  2. [Tokenize] splits the text into rows of trimmed fields, honoring quotes,
//     escaped quotes and line breaks inside quoted fields.
//  3. [RowValidator.ValidateRow] resolves each row's references against a
//     [ReferenceDataset] through a [Resolver] and normalizes the scalar fields
//     (see convert.go).
//  4. [Summarize] flattens the outcomes into an [ImportSummary].
//
// # Preview and commit
//
// [Importer.Preview] runs the whole chain and has no side effects. The caller
// shows the summary to the operator and, on confirmation, passes the preview
// to [Commit], which hands [Preview.Accepted] to a [RecordSink] as one batch.
// [Service] keeps previews in memory between the two phases.
//
// # Error Handling
//
// Malformed row data never produces a Go error. It becomes either a fatal row
// error (the row is rejected) or a warning (the row is accepted with degraded
// confidence). Only an unreadable file is reported as an error; [MapError]
// turns such errors into user-facing messages with support codes.
package core
