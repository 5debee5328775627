package logging

import "log/slog"

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// WithComponent tags a logger with the subsystem name.
//
//	log := logging.WithComponent(base, "filestore")
//	log.Debug("flush skipped", "table", name)
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return OrNop(l).With("component", component)
}

// WithEngine tags a logger with an engine instance id.
func WithEngine(l *slog.Logger, id string) *slog.Logger {
	return OrNop(l).With("engine_id", id)
}

// WithTable tags a logger with a table name.
func WithTable(l *slog.Logger, table string) *slog.Logger {
	return OrNop(l).With("table", table)
}

// WithIndex tags a logger with a table.column index.
func WithIndex(l *slog.Logger, table, column string) *slog.Logger {
	return OrNop(l).With("table", table, "index", column)
}
