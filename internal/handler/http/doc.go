// Package http implements the REST transport of the natours API.
//
// It holds the route table, the generic CRUD handler factory, the auth and
// self-service handlers, the error normalizer and the middleware chain:
// tracing, access logging, panic recovery, security headers, rate limiting,
// body limits, HTML stripping, gzip and request timeouts. Handlers return
// errors and never write failures themselves; [Handler.catch] forwards every
// error to the normalizer.
package http
