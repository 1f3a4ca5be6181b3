package application

import "log/slog"

// ResolveLogger returns the provided logger or the process default so
// application code never has to nil-check.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
