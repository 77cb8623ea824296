package logger

import (
	"os"
	"sync"
)

// AppendFile is an io.Writer that opens path in append mode for every write
// and closes it again, so no file handle outlives a single log line.
type AppendFile struct {
	path string
	mu   sync.Mutex
}

func NewAppendFile(path string) *AppendFile {
	return &AppendFile{path: path}
}

func (a *AppendFile) Path() string {
	return a.path
}

func (a *AppendFile) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(p)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

// NewDiagnostic returns a text logger appending to path. An empty path yields
// a logger that discards everything.
func NewDiagnostic(path, service string) *Logger {
	if path == EMPTY {
		return Discard()
	}
	return New(Config{
		Level:   DEBUG,
		Format:  TEXT,
		Output:  NewAppendFile(path),
		Service: service,
	})
}
