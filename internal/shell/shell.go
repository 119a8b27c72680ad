// Package shell is the interactive read-eval loop of rnotes-cli.
//
// The calling goroutine owns the terminal: it reads lines, parses them and
// prints results. A worker goroutine owns the executor and therefore every
// network call. They talk over two channels and at most one command is in
// flight at any time, while a spinner is drawn until the reply arrives.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/starford/rnotes/internal/command"
)

// DefaultPrompt is shown before every line.
const DefaultPrompt = "rnotes_cli>> "

// passwordFromTerminal is the password argument that asks for a prompt.
const passwordFromTerminal = "-"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Executor runs one command and renders its outcome. *runner.Runner
// implements it.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command) string
}

// LineReader is the line-editing collaborator.
type LineReader interface {
	// Readline returns readline.ErrInterrupt on Ctrl-C and io.EOF on Ctrl-D.
	Readline() (string, error)
	// AddHistory makes line available to history navigation.
	AddHistory(line string) error
	Close() error
}

// Config holds the shell settings.
type Config struct {
	Prompt          string
	Server          string
	SpinnerInterval time.Duration
	History         *History
}

// Shell is one interactive session.
type Shell struct {
	cfg    Config
	exec   Executor
	hints  *command.HintSet
	reader LineReader
	out    io.Writer
	logger *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithReader replaces the terminal line editor.
func WithReader(r LineReader) Option {
	return func(s *Shell) { s.reader = r }
}

// WithOutput redirects everything the shell prints.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// WithLogger sets the logger used for non-fatal problems.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// New creates a shell that hands parsed commands to exec.
func New(cfg Config, exec Executor, opts ...Option) *Shell {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.SpinnerInterval <= 0 {
		cfg.SpinnerInterval = DefaultSpinnerInterval
	}
	s := &Shell{
		cfg:    cfg,
		exec:   exec,
		hints:  command.NewHintSet(command.Default),
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads and executes lines until exit, Ctrl-C or Ctrl-D. History is
// loaded before the first prompt and saved on the way out; failures of
// either are logged and otherwise ignored.
func (s *Shell) Run(ctx context.Context) error {
	if h := s.cfg.History; h != nil {
		if err := h.Load(); err != nil {
			s.logger.Warn("Error loading history file", slog.String("path", h.Path()), slog.String("error", err.Error()))
		}
	}

	reader := s.reader
	if reader == nil {
		rl, err := newReadline(s.cfg.Prompt, s.hints)
		if err != nil {
			return fmt.Errorf("init line editor: %w", err)
		}
		reader = rl
	}
	defer reader.Close()
	if h := s.cfg.History; h != nil {
		for _, e := range h.Entries() {
			_ = reader.AddHistory(e)
		}
	}

	fmt.Fprintln(s.out, Banner(s.cfg.Server))

	in := make(chan command.Command, 1)
	out := make(chan string, 1)

	var g errgroup.Group
	g.Go(func() error {
		defer close(out)
		for cmd := range in {
			out <- s.exec.Execute(ctx, cmd)
		}
		return nil
	})

	loopErr := s.loop(ctx, reader, in, out)
	close(in)
	_ = g.Wait()

	if h := s.cfg.History; h != nil {
		if err := h.Save(); err != nil {
			s.logger.Warn("Error saving history file", slog.String("path", h.Path()), slog.String("error", err.Error()))
		}
	}
	return loopErr
}

func (s *Shell) loop(ctx context.Context, reader LineReader, in chan<- command.Command, out <-chan string) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := reader.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(s.out, "CTRL-C")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out, "CTRL-D")
			return nil
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		if s.cfg.History != nil && s.cfg.History.Add(line) {
			_ = reader.AddHistory(line)
		}

		cmd, err := command.ParseLine(line)
		if errors.Is(err, command.ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
			continue
		}
		if _, ok := cmd.(command.Nothing); ok {
			continue
		}

		cmd, err = s.promptPassword(cmd)
		if err != nil {
			fmt.Fprintln(s.out, errorStyle.Render("error: "+err.Error()))
			continue
		}

		result, ok := s.dispatch(cmd, in, out)
		if !ok {
			return errors.New("command worker stopped")
		}
		fmt.Fprintln(s.out, result)
	}
}

// dispatch sends one command and animates the spinner until its result
// comes back.
func (s *Shell) dispatch(cmd command.Command, in chan<- command.Command, out <-chan string) (string, bool) {
	in <- cmd

	sp := newSpinner(s.out)
	ticker := time.NewTicker(s.cfg.SpinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case result, ok := <-out:
			sp.Clear()
			return result, ok
		case <-ticker.C:
			sp.Tick()
		}
	}
}

// promptPassword asks for the login password on the terminal when it was
// given as "-".
func (s *Shell) promptPassword(cmd command.Command) (command.Command, error) {
	login, ok := cmd.(command.AuthLogin)
	if !ok || login.Credentials.Password != passwordFromTerminal {
		return cmd, nil
	}

	fmt.Fprint(s.out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(s.out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return nil, errors.New("empty password")
	}
	login.Credentials.Password = string(pw)
	return login, nil
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	subtleStyle = lipgloss.NewStyle().Faint(true)
)

// Banner is printed once when the shell starts.
func Banner(server string) string {
	title := bannerStyle.Render("rnotes cli")
	if server == "" {
		return title + "\n" + subtleStyle.Render("Type 'help' for the list of services.")
	}
	return title + "\n" + subtleStyle.Render("Server: "+server+". Type 'help' for the list of services.")
}

// rlReader adapts a readline instance to LineReader.
type rlReader struct {
	*readline.Instance
}

func newReadline(prompt string, hints *command.HintSet) (*rlReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
		AutoComplete:           completer{hints: hints},
		Painter:                painter{hints: hints},
		DisableAutoSaveHistory: true,
		HistorySearchFold:      true,
	})
	if err != nil {
		return nil, err
	}
	return &rlReader{Instance: rl}, nil
}

func (r *rlReader) AddHistory(line string) error {
	return r.SaveHistory(line)
}
