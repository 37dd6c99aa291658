// Package seed generates plausible demo leads with full status histories,
// for demos and dashboard screenshots.
//
// Generation is pure: Generate produces leads and ledgers in memory with no
// side effects. Persistence is a separate, explicit step that tolerates
// per-record failures and reports a partial-batch summary instead of
// aborting. Arrival dates follow a seasonal curve (spring and summer heavy)
// and each lead's status history is a random walk over the workflow's
// transition graph, bounded by a max-hops cap.
package seed
