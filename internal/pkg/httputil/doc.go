// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler file should use these helpers instead of writing raw
// http.ResponseWriter calls. All responses share the same envelope:
//
//	{"success": true,  "data": ..., "message": "..."}
//	{"success": false, "error": "...", "message": "..."}
//
// so the admin dashboard and the public site can treat every endpoint
// uniformly.
package httputil
