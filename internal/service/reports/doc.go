// Package reports computes the admin dashboard metrics from the full sales
// set and the status tracking ledger.
//
// Reports are computed on demand, never maintained incrementally: a report
// request reads everything and derives cycle times, per-status dwell times,
// transition-time tables, and monthly trend buckets in one pass. If either
// read fails the whole request fails; no partial reports are served.
package reports
