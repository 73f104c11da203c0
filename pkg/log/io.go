package log

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// IOLogger wraps a reader and a writer and records every message that
// crosses them. It captures the raw MCP session when command logging is
// enabled; stdout framing is untouched because writes pass through as-is.
type IOLogger struct {
	reader io.Reader
	writer io.Writer
	logger *log.Logger
}

// NewIOLogger creates an IOLogger around the given reader and writer
func NewIOLogger(r io.Reader, w io.Writer, logger *log.Logger) *IOLogger {
	return &IOLogger{
		reader: r,
		writer: w,
		logger: logger,
	}
}

// Read reads from the underlying reader and logs what arrived
func (l *IOLogger) Read(p []byte) (int, error) {
	n, err := l.reader.Read(p)
	if n > 0 {
		l.logger.WithField("dir", "in").Debug(string(p[:n]))
	}
	return n, err
}

// Write logs the outgoing message and forwards it to the underlying writer
func (l *IOLogger) Write(p []byte) (int, error) {
	l.logger.WithField("dir", "out").Debug(string(p))
	return l.writer.Write(p)
}
