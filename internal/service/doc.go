// Package service contains the domain services that orchestrate validation
// and persistence. Services are the only callers of the store layer, and the
// only layer that raises validation and conflict errors; store errors such as
// "not found" pass through unchanged.
package service
