package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// History is the persistent line history of the shell. Lines starting
// with a space are never recorded.
type History struct {
	path    string
	limit   int
	entries []string
}

// NewHistory returns an empty history bound to path. A limit of zero or
// less keeps every entry.
func NewHistory(path string, limit int) *History {
	return &History{path: path, limit: limit}
}

// Path returns the file the history is loaded from and saved to.
func (h *History) Path() string { return h.path }

// Load replaces the in-memory entries with the file contents. A missing
// file is not an error.
func (h *History) Load() error {
	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var entries []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			entries = append(entries, line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	h.entries = entries
	h.trim()
	return nil
}

// Add records line and reports whether it was kept. Empty lines, lines
// with a leading space and repeats of the last entry are dropped.
func (h *History) Add(line string) bool {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, " ") {
		return false
	}
	if strings.ContainsAny(line, "\r\n") {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return false
	}
	h.entries = append(h.entries, line)
	h.trim()
	return true
}

// Entries returns the recorded lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Save writes the entries to the history file, one per line.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), ".history-*")
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range h.entries {
		_, _ = w.WriteString(e)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		return fmt.Errorf("rename history: %w", err)
	}
	return nil
}

func (h *History) trim() {
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}
