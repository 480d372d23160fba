// Package tasks runs long catalog operations with real-time progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] writes many album or playlist listings to one directory:
//   - Listings are loaded one at a time from a [ListingSource], optionally rate limited
//   - A bounded pool of workers renders and writes each listing with the formatter package
//   - Failures are recorded per listing and never abort the run
//   - A JSON manifest summarizing every result is written last
//
// # Progress Reporting
//
// Progress is sent on a caller-supplied channel. Sends use select with default, so a slow or absent reader
// never blocks an export.
package tasks
