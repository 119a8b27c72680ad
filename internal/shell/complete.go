package shell

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/rnotes/internal/command"
)

// completer offers the rest of the current word from the hint set.
type completer struct {
	hints *command.HintSet
}

// Do implements readline.AutoCompleter.
func (c completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	prefix := string(line[:pos])
	suffixes := c.hints.Complete(prefix, len(prefix))
	if len(suffixes) == 0 {
		return nil, 0
	}

	out := make([][]rune, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, []rune(s))
	}
	word := prefix[strings.LastIndexByte(prefix, ' ')+1:]
	return out, utf8.RuneCountInString(word)
}

var hintStyle = lipgloss.NewStyle().Faint(true)

// painter shows the best hint as faint text after the cursor.
type painter struct {
	hints *command.HintSet
}

// Paint implements readline.Painter.
func (p painter) Paint(line []rune, pos int) []rune {
	if pos != len(line) {
		return line
	}
	s := string(line)
	hint, ok := p.hints.Hint(s, len(s))
	if !ok || hint == "" {
		return line
	}
	// Print the hint, then move the cursor back to where typing continues.
	back := fmt.Sprintf("\x1b[%dD", utf8.RuneCountInString(hint))
	painted := make([]rune, 0, len(line)+len(hint)+16)
	painted = append(painted, line...)
	painted = append(painted, []rune(hintStyle.Render(hint)+back)...)
	return painted
}
