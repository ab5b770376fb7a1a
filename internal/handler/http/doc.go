// Package http implements the REST transport of the rental-market server.
//
// It exposes route wiring under /api/v1, request handlers for the account,
// address and product workflows, and the middleware chain that runs in front
// of them: panic recovery, request tracing, access logging, response
// compression and the protect/restrictTo authorization gate. Every response
// body is a [models.Response] envelope.
package http
