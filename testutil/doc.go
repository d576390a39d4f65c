// Package testutil provides common testing utilities for bwenv.
//
// This package includes helpers for:
//   - Capturing stdout during test execution (CaptureOutput)
//   - Writing and reading fixture files (WriteFile, ReadFile)
//   - Inspecting directories after atomic writes (ListDir)
//
// All functions use t.Helper() for proper test line reporting.
package testutil
