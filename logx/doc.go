// Package logx provides leveled logging with environment variable
// configuration, colored console output and structured JSON output.
//
// Environment Variables:
//   - LOG_LEVEL: Set the minimum log level (TRACE, DEBUG, INFO, WARN, ERROR, OFF)
//   - LOG_FORMAT: Set output format (console, json)
//   - LOG_COLOR: Enable/disable colored output (true/false, default: true)
//   - LOG_CALLER: Enable/disable caller information (true/false, default: true)
//
// Basic Usage:
//
//	logx.Info("bus ready, %d subscribers", n)
//	logx.Error("failed to deliver event: %v", err)
//
// Format Examples:
//
//	Console Format (default):
//	[2025-06-08 18:57:52] [DEBUG] bus.go:64: registered 3 handlers for subscriber *plugin.Toolbar
//
//	JSON Format (structured logging for log aggregation):
//	LOG_FORMAT=json go run main.go
//	{"timestamp":"2025-06-08T18:57:52Z","level":"DEBUG","message":"registered 3 handlers","caller":"bus.go:64"}
//
// Both a global logger and instance-based loggers are available; libraries
// take a *Logger so hosts can route their output.
package logx
