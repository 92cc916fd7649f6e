// Package validation provides a small fluent validator for request
// inputs. Checks accumulate field errors; Err returns them as a single
// *Error or nil.
package validation
