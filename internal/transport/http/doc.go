// Package http implements the HTTP handlers of the LAS Analyzer API.
//
// Handlers are thin: they parse and validate the request, call a service and render
// the result with chi/render. Service errors are translated to RFC 7807 problem
// documents through internal/errors, so every failure response has the shape
//
//	{
//	    "type": "/errors/interpret/invalid-depth-range",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Invalid depth range",
//	    "instance": "/api/wells/5f0c.../interpret",
//	    "trace_id": "..."
//	}
//
// Routes are mounted under /api by internal/app. Handlers depend on the small service
// interfaces declared in services.go and are tested with httptest and testify mocks.
package http
