package zstdlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"farmtycoon/internal/app/ports"
)

const (
	filePrefix = "journal"
	fileSuffix = ".jsonl.zst"
)

// Writer appends journal entries as zstd-compressed JSON lines, one file per
// UTC day.
type Writer struct {
	baseDir string
	now     func() time.Time

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) Append(_ context.Context, entries []ports.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().UTC().Format("2006-01-02")
	if day != w.curDay {
		if err := w.rotateLocked(day); err != nil {
			return err
		}
	}

	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode journal entry %s: %w", e.Type, err)
		}
		if _, err := w.w.Write(b); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	// make the block readable before the frame is closed
	return w.enc.Flush()
}

// ListBySessionID scans every journal file under the base dir and returns the
// session's entries newest first.
func (w *Writer) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	w.mu.Lock()
	dir := w.baseDir
	w.mu.Unlock()

	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	var out []ports.JournalEntry
	for i := len(files) - 1; i >= 0; i-- {
		entries, err := ReadFile(files[i])
		if err != nil {
			return nil, err
		}
		for j := len(entries) - 1; j >= 0; j-- {
			if entries[j].SessionID != sessionID {
				continue
			}
			out = append(out, entries[j])
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func (w *Writer) rotateLocked(day string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForDay(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curDay = day
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curDay = ""
	return err1
}

func (w *Writer) pathForDay(day string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s%s", filePrefix, day, fileSuffix))
}
