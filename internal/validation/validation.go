// Package validation contains the logic for validating
// request data.
//
// Every endpoint declares its query parameters explicitly (type, default,
// bounds, allowed values). Each parameter is checked by its own constraint
// function, violations are accumulated, and a request with any violation is
// rejected with a single envelope that lists all of them.
package validation
