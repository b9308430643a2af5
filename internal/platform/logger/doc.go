// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries loggers through context.Context so that
// session-scoped attributes follow a checklist session across components.
package logger
