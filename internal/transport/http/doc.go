// Package http contains the HTTP transport layer: chi routers and handlers
// translating requests into service calls and service results into JSON or
// file responses. Handlers depend on small service interfaces so tests can
// substitute fakes.
package http
