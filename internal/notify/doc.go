// Package notify sends the outbound emails triggered by new inquiries: a
// staff alert and a customer acknowledgement. Sends are best-effort; a
// failed notification never fails the operation that triggered it.
package notify
