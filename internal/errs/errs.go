// Package errs define custom error types and utilities.
//
// Every error the API writes goes through HTTPError, so a 400 caused by
// bad query parameters and a 500 caused by a failing platform share one
// JSON shape: {"error": ..., "code": ..., "status": ..., "details": [...]}.
package errs
