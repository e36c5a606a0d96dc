// Package api contains the HTTP request boundary: handlers that parse and
// validate transport input, call the domain services, and translate domain
// errors into the standard error envelope.
package api
