// Package integration provides integration tests for the String Analyzer API server.
// These tests run the complete application over a real listener and exercise
// the string lifecycle together with structured and natural language filtering.
package integration
