// Package server runs the HTTP API and the background workers until the
// process context is cancelled, then shuts both down gracefully.
package server
