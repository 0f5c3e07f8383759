// Package requestid correlates the log records of one gateway request.
//
// Middleware accepts a client supplied X-Request-ID of at most 128
// characters from [a-zA-Z0-9_-], otherwise it generates a UUID. The id is
// echoed on the response and LoggerExtractor attaches it to every record
// logged with the request context.
package requestid
