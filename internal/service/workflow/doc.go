// Package workflow serves the sales status vocabulary: each status with its
// pipeline order, description, and permitted next statuses.
//
// The vocabulary is read from the sales_statuses table when available. If
// the table is unreachable or returns fewer statuses than the hardcoded
// default, the service silently falls back to domain.DefaultWorkflow;
// partial workflow data is worse than stale-but-complete data. Lead
// processing treats the vocabulary as read-only; edits happen out of band.
package workflow
