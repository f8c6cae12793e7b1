// Package trace provides the execution trace sink for the Steps
// interpreter: structured JSON events for step calls, returns and errors,
// written to stderr or to a rotating log file.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Event is a single trace record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"` // "call", "return", "error"
	Name      string    `json:"name"`
	Depth     int       `json:"depth"`
	File      string    `json:"file,omitempty"`
	Line      int       `json:"line,omitempty"`
	Column    int       `json:"column,omitempty"`
}

// Session collects trace events for one program execution.
type Session struct {
	mu     sync.Mutex
	sink   io.Writer
	logger *lumberjack.Logger
}

// NewSession creates a trace session. With an empty path events go to
// stderr; otherwise to the given file with rotation (10 MB per file,
// three backups kept).
func NewSession(path string) *Session {
	s := &Session{sink: os.Stderr}
	if path != "" {
		s.logger = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		s.sink = s.logger
	}
	return s
}

// Emit writes one event as a JSON line. Marshalling failures are
// swallowed; tracing must never break execution.
func (s *Session) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintln(s.sink, string(data))
}

// Close flushes and closes the file sink if one is open.
func (s *Session) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}
