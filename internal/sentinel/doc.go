// Package sentinel provides a string-backed error type so package-level
// sentinel errors can be declared as constants and compared with errors.Is.
package sentinel
