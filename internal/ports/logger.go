package ports

// Logger is the logging interface used across the module. It is
// compatible out of the box with log.Log from github.com/apex/log.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)
}

// DiscardLogger is the default logger; it discards its input.
var DiscardLogger Logger = logDiscarder{}

type logDiscarder struct{}

func (logDiscarder) Debugf(string, ...any) {}
func (logDiscarder) Infof(string, ...any)  {}
func (logDiscarder) Warnf(string, ...any)  {}

// ValidLoggerOrDefault returns logger when it is not nil, or DiscardLogger.
func ValidLoggerOrDefault(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return DiscardLogger
}
