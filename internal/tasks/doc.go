// Package tasks runs long fixture operations with real-time progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] fetches the upcoming fixtures once, splits them by league and hands each league to a
// pool of workers that render it with the formatter package. A manifest summarizing every league written (or
// failed) is stored next to the exports.
//
// # Progress Reporting
//
// Operations take a send-only [ProgressUpdate] channel. Updates use select with default so a slow or absent reader
// never blocks the export; a nil channel disables reporting.
package tasks
