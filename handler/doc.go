// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a request struct filled by binders and returns a
// Response: JSON, Redirect, Text, Empty or Fail. Fail hands a classified
// error to the route's ErrorHandler, which renders the wire shape
//
//	{"error": "<kind key>", "message": "<sanitized message>"}
//
// with the status of the error's core.Kind. Causes are logged, never sent.
package handler
