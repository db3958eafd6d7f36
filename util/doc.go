// Package util holds small helpers shared by scribe packages: byte size
// parsing for config values, secret masking for logs and generic value
// helpers.
package util
