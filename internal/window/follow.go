package window

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dagucloud/ringbuf/internal/cmn/logger"
	"github.com/dagucloud/ringbuf/internal/cmn/logger/tag"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/transform"
)

// readChunkSize bounds each read from a followed file.
const readChunkSize = 64 * 1024

// Follower tails a file into a Window, pushing lines as they are appended.
// Bytes are decoded with the window's encoding before lines are split, and
// a trailing line without a newline is held back until it is completed.
type Follower struct {
	w      *Window
	path   string
	file   *os.File
	offset int64

	dec       transform.Transformer
	raw       []byte // bytes of an incomplete character
	partial   strings.Builder
	truncated bool
	chunk     []byte
}

// Follow opens path and loads its current contents into the window.
// Call Run to keep the window updated as the file grows.
func (w *Window) Follow(ctx context.Context, path string) (*Follower, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	f, err := os.Open(abs) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	fl := &Follower{
		w:     w,
		path:  abs,
		file:  f,
		dec:   w.enc.NewDecoder(),
		chunk: make([]byte, readChunkSize),
	}
	n, err := fl.readAppended(ctx, nil)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	logger.Debug(ctx, "Loaded file into window", tag.File(abs), tag.Count(n), tag.Offset(fl.offset))
	return fl, nil
}

// Close releases the underlying file.
func (fl *Follower) Close() error {
	return fl.file.Close()
}

// Run watches the file and calls emit for every completed line, after it
// has been pushed into the window. It returns nil when ctx is cancelled or
// the file is removed or renamed. A file that shrinks is treated as
// truncated and re-read from the beginning.
func (fl *Follower) Run(ctx context.Context, emit func(line string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory so that removal and re-creation are observed.
	if err := watcher.Add(filepath.Dir(fl.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fl.path, err)
	}

	var pollCh <-chan time.Time
	if fl.w.pollInterval > 0 {
		ticker := time.NewTicker(fl.w.pollInterval)
		defer ticker.Stop()
		pollCh = ticker.C
		logger.Debug(ctx, "Polling enabled", tag.File(fl.path), tag.Interval(fl.w.pollInterval))
	}

	// Catch anything written between Follow and the watch being set up.
	fl.update(ctx, emit)

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Stopping follow due to context cancellation", tag.File(fl.path))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fl.path {
				continue
			}
			logger.Debug(ctx, "File system event detected", "event", event.String())
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				fl.update(ctx, emit)
				fl.flush(ctx, emit)
				logger.Info(ctx, "Followed file was removed", tag.File(fl.path))
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fl.update(ctx, emit)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(ctx, "File watcher error", tag.Error(err))

		case <-pollCh:
			if _, err := os.Stat(fl.path); errors.Is(err, os.ErrNotExist) {
				fl.update(ctx, emit)
				fl.flush(ctx, emit)
				logger.Info(ctx, "Followed file was removed", tag.File(fl.path))
				return nil
			}
			fl.update(ctx, emit)
		}
	}
}

func (fl *Follower) update(ctx context.Context, emit func(string)) {
	n, err := fl.readAppended(ctx, emit)
	if err != nil {
		logger.Error(ctx, "Failed to read appended data", tag.File(fl.path), tag.Error(err))
		return
	}
	if n > 0 {
		logger.Debug(ctx, "Read appended lines", tag.Count(n), tag.Offset(fl.offset))
	}
}

// readAppended reads everything past the current offset in bounded chunks,
// pushes completed lines and returns how many were pushed.
func (fl *Follower) readAppended(ctx context.Context, emit func(string)) (int, error) {
	info, err := fl.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", fl.path, err)
	}

	size := info.Size()
	if size < fl.offset {
		logger.Info(ctx, "Followed file was truncated", tag.File(fl.path))
		fl.reset()
	}

	section := io.NewSectionReader(fl.file, fl.offset, size-fl.offset)
	lines := 0
	for {
		n, err := section.Read(fl.chunk)
		if n > 0 {
			fl.offset += int64(n)
			text, decErr := fl.decode(fl.chunk[:n], false)
			if decErr != nil {
				return lines, decErr
			}
			lines += fl.appendText(ctx, text, emit)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, fmt.Errorf("failed to read %s: %w", fl.path, err)
		}
	}
}

func (fl *Follower) reset() {
	fl.offset = 0
	fl.raw = nil
	fl.partial.Reset()
	fl.truncated = false
	fl.dec.Reset()
}

// decode converts src, prefixed by any incomplete character left from the
// previous call, to UTF-8. Unless atEOF is set, a trailing incomplete
// character is kept for the next call.
func (fl *Follower) decode(src []byte, atEOF bool) (string, error) {
	src = append(fl.raw, src...)
	fl.raw = nil

	var out []byte
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	for {
		nDst, nSrc, err := fl.dec.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]
		switch {
		case err == nil:
			return string(out), nil
		case errors.Is(err, transform.ErrShortSrc):
			fl.raw = append([]byte(nil), src...)
			return string(out), nil
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		default:
			return string(out), fmt.Errorf("failed to decode %s: %w", fl.path, err)
		}
	}
}

// appendText splits decoded text on newlines, pushing every completed line.
func (fl *Follower) appendText(ctx context.Context, text string, emit func(string)) int {
	lines := 0
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			fl.addPartial(text)
			return lines
		}
		fl.addPartial(text[:i])
		fl.pushPartial(ctx, emit)
		text = text[i+1:]
		lines++
	}
}

func (fl *Follower) addPartial(s string) {
	if room := fl.w.maxLineSize - fl.partial.Len(); len(s) > room {
		s = s[:room]
		fl.truncated = true
	}
	fl.partial.WriteString(s)
}

func (fl *Follower) pushPartial(ctx context.Context, emit func(string)) {
	line := strings.TrimSuffix(fl.partial.String(), "\r")
	if fl.truncated {
		line = strings.ToValidUTF8(line, "")
		logger.Warn(ctx, "Line exceeds maximum length, truncated", tag.File(fl.path), tag.MaxBytes(fl.w.maxLineSize))
	}
	fl.partial.Reset()
	fl.truncated = false

	fl.w.Push(line)
	if emit != nil {
		emit(line)
	}
}

// flush pushes a held-back partial line, if any.
func (fl *Follower) flush(ctx context.Context, emit func(string)) {
	if len(fl.raw) > 0 {
		text, err := fl.decode(nil, true)
		if err != nil {
			logger.Error(ctx, "Failed to decode trailing bytes", tag.File(fl.path), tag.Error(err))
		}
		fl.addPartial(text)
	}
	if fl.partial.Len() == 0 {
		return
	}
	fl.pushPartial(ctx, emit)
}
