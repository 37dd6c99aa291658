// Package support handles support tickets submitted from the website:
// creation, listing, and status updates through a fixed lifecycle
// (open, in_progress, resolved, closed).
package support
