// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// JSON logging with the log level taken from server configuration, and ships
// buffer-backed helpers for asserting on log output in tests.
package logger
