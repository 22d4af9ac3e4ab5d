package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/rezonia/invoice-generator/internal/model"
)

const maxLineSize = 16 << 20

// FileLog writes entries as JSON Lines. The file is opened in append mode
// and closed again for every entry, and each entry is a single write.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a log at path. Nothing is touched until the first append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Path returns the log file location
func (l *FileLog) Path() string {
	return l.path
}

// Append writes one entry at the end of the file
func (l *FileLog) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return model.NewPersistenceError("append", l.path, err)
	}

	line, err := json.Marshal(e)
	if err != nil {
		return model.NewPersistenceError("encode", l.path, errors.Wrap(err, "marshal audit entry"))
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.NewPersistenceError("open", l.path, errors.Wrap(err, "create audit log directory"))
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return model.NewPersistenceError("open", l.path, errors.Wrap(err, "open audit log"))
	}

	n, err := f.Write(line)
	if err == nil && n < len(line) {
		err = io.ErrShortWrite
	}
	closeErr := f.Close()
	if err != nil {
		return model.NewPersistenceError("write", l.path, errors.Wrap(err, "append audit entry"))
	}
	if closeErr != nil {
		return model.NewPersistenceError("close", l.path, errors.Wrap(closeErr, "close audit log"))
	}
	return nil
}

// ReadAll returns every entry in insertion order. A missing file is an empty log.
func (l *FileLog) ReadAll(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewPersistenceError("read", l.path, errors.Wrap(err, "open audit log"))
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, model.NewPersistenceError("read", l.path, errors.Wrapf(err, "line %d", lineNo))
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, model.NewPersistenceError("read", l.path, errors.Wrap(err, "scan audit log"))
	}
	return entries, nil
}

// Recent returns the last limit entries, all of them when limit is not positive
func (l *FileLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := l.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return tail(entries, limit), nil
}
