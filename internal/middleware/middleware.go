// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as request
// logging, tracing, CORS, session id checks, panic recovery and the translation
// of every returned error into the JSON error shape.
package middleware
