// Package shared holds code used across the LAS analyzer that belongs to no single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - SampleLAS and BuildLAS fixtures for parser, service and tool tests
//   - WriteLASFile for tests that need a LAS file on disk
//
// Nothing here may import a domain package.
package shared
