// Package shared holds helpers used by more than one package in csvplot.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log output
//   - small CSV fixtures and loader sources
//   - a multipart body builder for upload handler tests
//
// Nothing here carries application logic.
package shared
