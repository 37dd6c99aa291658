// Package api exposes the HTTP JSON surface: lead ingestion and queries,
// status updates, reports, workflow metadata, demo seeding, support
// tickets, and the AI and social proxies. Every response uses the uniform
// {success, data|error, message} envelope from httputil.
package api
