package shell

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultSpinnerInterval is the time between two spinner frames.
const DefaultSpinnerInterval = 250 * time.Millisecond

var spinnerFrames = []string{"-", `\`, "|", "/"}

const spinnerLabel = "Executing command"

// spinner redraws a single progress line in place with carriage returns.
// It is driven by the shell loop and never starts goroutines of its own.
type spinner struct {
	out   io.Writer
	frame int
	drawn bool
}

func newSpinner(out io.Writer) *spinner {
	return &spinner{out: out}
}

// Tick draws the next frame.
func (s *spinner) Tick() {
	fmt.Fprintf(s.out, "\r%s %s", spinnerLabel, spinnerFrames[s.frame%len(spinnerFrames)])
	s.frame++
	s.drawn = true
}

// Clear erases the progress line if anything was drawn.
func (s *spinner) Clear() {
	if !s.drawn {
		return
	}
	width := len(spinnerLabel) + 2
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", width))
	s.drawn = false
}
