// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces.
package postgres
