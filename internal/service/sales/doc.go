// Package sales implements lead ingestion and the status-update workflow.
//
// The service layer owns all business logic: validation, de-duplication by
// email, the append-only status tracking ledger, cache invalidation, and
// best-effort notification. It depends on repository interfaces defined in
// this package and should never import from api/.
//
// Durability policy: the primary Sale record always wins. A failed tracking
// append or notification send never fails the operation that wrote the
// primary record; it is surfaced as a warning on the result instead.
//
// Repository implementations live in repository/postgres/; tests use
// in-memory doubles.
package sales
