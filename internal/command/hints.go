package command

import (
	"slices"
	"strings"
)

// HintSet is the immutable set of complete command lines offered for
// completion and inline hints.
type HintSet struct {
	hints []string
}

// NewHintSet derives the hints of g: every service and sub-command path,
// the same paths prefixed with "help ", and the bare help and exit words.
func NewHintSet(g *Grammar) *HintSet {
	var hints []string
	for _, p := range g.Paths() {
		hints = append(hints, p, "help "+p)
	}
	for _, s := range g.Services {
		if s.kind != commandsService {
			hints = append(hints, s.Name)
		}
	}
	slices.Sort(hints)
	return &HintSet{hints: slices.Compact(hints)}
}

// All returns a copy of every hint in lexicographic order.
func (h *HintSet) All() []string {
	return slices.Clone(h.hints)
}

// Len returns the number of hints.
func (h *HintSet) Len() int {
	return len(h.hints)
}

// Contains reports whether s is exactly one of the hints.
func (h *HintSet) Contains(s string) bool {
	_, ok := slices.BinarySearch(h.hints, s)
	return ok
}

// Complete returns, in lexicographic order, the remainder of every hint
// starting with line[:pos] whose remainder contains no space. pos is a byte
// offset into line; nothing is offered at position zero.
func (h *HintSet) Complete(line string, pos int) []string {
	if pos <= 0 || pos > len(line) {
		return nil
	}
	prefix := line[:pos]
	var out []string
	for _, hint := range h.hints {
		if !strings.HasPrefix(hint, prefix) {
			continue
		}
		rest := hint[pos:]
		if strings.Contains(rest, " ") {
			continue
		}
		out = append(out, rest)
	}
	return out
}

// Hint returns the remainder of the lexicographically first hint starting
// with line. It only answers when the cursor is at the end of the line.
func (h *HintSet) Hint(line string, pos int) (string, bool) {
	if pos != len(line) || line == "" {
		return "", false
	}
	for _, hint := range h.hints {
		if strings.HasPrefix(hint, line) {
			return hint[len(line):], true
		}
	}
	return "", false
}
