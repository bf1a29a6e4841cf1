// Package file writes reject reports as newline-delimited JSON.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/output"
)

const (
	defaultBufSize = 64 * 1024
	defaultKeep    = 9
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size (bytes) at which rotation triggers.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithKeep sets how many rotated files (path.1 .. path.N) are kept. Default: 9.
func WithKeep(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.keep = n
		}
	}
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output appends one JSON line per reject. Existing content is kept so
// reports accumulate across runs; a line is never split across two files.
type Output struct {
	path      string
	verbosity output.Verbosity
	maxSize   int64
	keep      int
	bufSize   int

	mu      sync.Mutex
	f       *os.File
	w       *bufio.Writer
	size    int64 // bytes in the current file, buffered included
	records int
}

// New opens (or creates) path for appending.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{path: path, verbosity: verbosity, keep: defaultKeep, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Output) Write(_ context.Context, r model.Reject) error {
	line, err := json.Marshal(output.FormatReject(r, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.full(len(line)) {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate %s: %w", o.path, err)
		}
	}
	n, err := o.w.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write %s: %w", o.path, err)
	}
	o.records++
	return nil
}

// Records returns the number of rejects written since New.
func (o *Output) Records() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.records
}

// Close flushes and syncs the file, then closes it.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	err := o.w.Flush()
	if err == nil {
		err = o.f.Sync()
	}
	return errors.Join(err, o.f.Close())
}

// full reports whether appending n bytes would push a non-empty file past maxSize.
func (o *Output) full(n int) bool {
	return o.maxSize > 0 && o.size > 0 && o.size+int64(n) > o.maxSize
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f, o.w, o.size = f, bufio.NewWriterSize(f, o.bufSize), info.Size()
	return nil
}

func (o *Output) rotated(i int) string {
	return fmt.Sprintf("%s.%d", o.path, i)
}

// rotate closes the current file, shifts path.N to path.N+1 dropping the
// oldest, renames path to path.1 and reopens path empty.
func (o *Output) rotate() error {
	if err := errors.Join(o.w.Flush(), o.f.Close()); err != nil {
		return err
	}
	var errs []error
	if err := os.Remove(o.rotated(o.keep)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	for i := o.keep - 1; i >= 1; i-- {
		if err := os.Rename(o.rotated(i), o.rotated(i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := os.Rename(o.path, o.rotated(1)); err != nil {
		errs = append(errs, err)
	}
	if err := o.open(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
