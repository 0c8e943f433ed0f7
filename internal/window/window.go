// Package window keeps the most recent lines of a text stream in a
// fixed-capacity ring buffer.
package window

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dagucloud/ringbuf/internal/cmn/logger"
	"github.com/dagucloud/ringbuf/internal/cmn/logger/tag"
	"github.com/dagucloud/ringbuf/pkg/ringbuf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxLineSize bounds a single line. Longer lines are cut to this
// many bytes.
const DefaultMaxLineSize = 1 << 20

// Window holds the last Capacity() lines pushed into it. It is safe for
// concurrent use.
type Window struct {
	mu  sync.Mutex
	buf *ringbuf.Buffer[string]

	encName      string
	enc          encoding.Encoding
	observer     ringbuf.Observer
	pollInterval time.Duration
	maxLineSize  int
}

// Option configures a Window.
type Option func(*Window)

// WithEncoding sets the character set of the input, by WHATWG name.
// The default is UTF-8.
func WithEncoding(name string) Option {
	return func(w *Window) {
		w.encName = name
	}
}

// WithObserver forwards buffer activity to o.
func WithObserver(o ringbuf.Observer) Option {
	return func(w *Window) {
		w.observer = o
	}
}

// WithPollInterval makes followers re-check the file on this interval in
// addition to file system notifications. Zero disables polling.
func WithPollInterval(d time.Duration) Option {
	return func(w *Window) {
		w.pollInterval = d
	}
}

// WithMaxLineSize sets the longest line kept, in bytes of UTF-8. Longer
// lines are truncated and a warning is logged. Non-positive values keep the
// default.
func WithMaxLineSize(n int) Option {
	return func(w *Window) {
		if n > 0 {
			w.maxLineSize = n
		}
	}
}

// New returns an empty window holding at most capacity lines.
func New(capacity int, opts ...Option) (*Window, error) {
	w := &Window{encName: "utf-8", maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(w)
	}

	enc, err := htmlindex.Get(w.encName)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", w.encName, err)
	}
	w.enc = enc

	buf, err := ringbuf.New(capacity, ringbuf.WithObserver[string](w.observer))
	if err != nil {
		return nil, err
	}
	w.buf = buf
	return w, nil
}

// Capacity returns the maximum number of lines kept.
func (w *Window) Capacity() int {
	return w.buf.Capacity()
}

// Size returns the number of lines currently held.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Size()
}

// Push appends a line, evicting the oldest one when the window is full.
func (w *Window) Push(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.PushBack(line)
}

// Lines returns the held lines, oldest first.
func (w *Window) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Slice()
}

// Consume reads r to the end, decoding it with the window's encoding and
// pushing every line. It returns the number of lines read.
func (w *Window) Consume(ctx context.Context, r io.Reader) (int, error) {
	reader := bufio.NewReaderSize(w.decoder(r), 64*1024)

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		line, truncated, err := w.readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("failed to read input: %w", err)
		}
		n++
		if truncated {
			logger.Warn(ctx, "Line exceeds maximum length, truncated", tag.Line(n), tag.MaxBytes(w.maxLineSize))
		}
		w.Push(line)
	}

	logger.Debug(ctx, "Consumed input", tag.Count(n), tag.Size(w.Size()), tag.Encoding(w.encName))
	return n, nil
}

// readLine returns the next line without its terminator. Bytes beyond
// maxLineSize are discarded up to the end of the line.
func (w *Window) readLine(r *bufio.Reader) (string, bool, error) {
	var (
		buf       []byte
		truncated bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}
		if room := w.maxLineSize - len(buf); len(chunk) > room {
			chunk = chunk[:room]
			truncated = true
		}
		buf = append(buf, chunk...)
		if !isPrefix {
			if truncated {
				return strings.ToValidUTF8(string(buf), ""), true, nil
			}
			return string(buf), false, nil
		}
	}
}

func (w *Window) decoder(r io.Reader) io.Reader {
	if w.enc == unicode.UTF8 {
		return r
	}
	return transform.NewReader(r, w.enc.NewDecoder())
}
