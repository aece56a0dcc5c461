// Package errs defines the error shapes returned to API clients.
//
// Every failure that leaves the HTTP layer is rendered from an *HTTPError so that
// clients always receive the same JSON structure:
//
//	{ "code": "REQUIRED_FIELD_MISSING", "message": "...", "status": 400,
//	  "override": false, "errors": [{ "field": "password", "error": "is required" }] }
//
// Model validation errors are translated here as well: a missing field is bad
// input (400), a broken model definition is a server defect (500).
package errs
