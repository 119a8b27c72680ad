package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chzyer/readline"

	"github.com/starford/rnotes/internal/command"
	"github.com/starford/rnotes/internal/models"
)

// scriptReader replays lines and then returns end.
type scriptReader struct {
	lines   []string
	end     error
	history []string
	closed  bool
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		if r.end == nil {
			return "", io.EOF
		}
		return "", r.end
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AddHistory(line string) error {
	r.history = append(r.history, line)
	return nil
}

func (r *scriptReader) Close() error {
	r.closed = true
	return nil
}

type fakeExec struct {
	mu       sync.Mutex
	cmds     []command.Command
	delay    time.Duration
	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeExec) Execute(_ context.Context, cmd command.Command) string {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	if n > f.maxSeen.Load() {
		f.maxSeen.Store(n)
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.cmds = append(f.cmds, cmd)
	f.mu.Unlock()

	switch c := cmd.(type) {
	case command.Help:
		return c.Text
	case command.NotesDelete:
		return "deleted"
	default:
		return "ok"
	}
}

func run(t *testing.T, reader *scriptReader, exec *fakeExec, cfg Config) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(cfg, exec, WithReader(reader), WithOutput(&out))
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reader.closed {
		t.Error("reader not closed")
	}
	return out.String()
}

func mustContain(t *testing.T, out string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRunDispatchesAndExits(t *testing.T) {
	reader := &scriptReader{lines: []string{"notes delete 4", "", "exit", "notes all"}}
	exec := &fakeExec{}

	out := run(t, reader, exec, Config{})

	if want := []command.Command{command.NotesDelete{ID: 4}}; !reflect.DeepEqual(exec.cmds, want) {
		t.Errorf("dispatched %#v, want %#v", exec.cmds, want)
	}
	mustContain(t, out, "deleted\n")
	if strings.Contains(out, "CTRL-D") {
		t.Errorf("exit printed the end-of-input notice:\n%s", out)
	}
	if want := []string{"notes all"}; !slices.Equal(reader.lines, want) {
		t.Errorf("unread lines = %q, want %q", reader.lines, want)
	}
}

func TestRunEndOfInput(t *testing.T) {
	out := run(t, &scriptReader{}, &fakeExec{}, Config{})
	if !strings.HasSuffix(out, "CTRL-D\n") {
		t.Errorf("output = %q", out)
	}
}

func TestRunInterrupt(t *testing.T) {
	out := run(t, &scriptReader{end: readline.ErrInterrupt}, &fakeExec{}, Config{})
	if !strings.HasSuffix(out, "CTRL-C\n") {
		t.Errorf("output = %q", out)
	}
}

func TestRunReadError(t *testing.T) {
	var out bytes.Buffer
	sh := New(Config{}, &fakeExec{}, WithReader(&scriptReader{end: errors.New("tty gone")}), WithOutput(&out))
	err := sh.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "tty gone") {
		t.Errorf("Run err = %v, want tty gone", err)
	}
}

func TestParseErrorsArePrintedNotDispatched(t *testing.T) {
	reader := &scriptReader{lines: []string{"foo", "notes", `notes create "open`, "categories get abc"}}
	exec := &fakeExec{}

	out := run(t, reader, exec, Config{})

	if len(exec.cmds) != 0 {
		t.Errorf("dispatched %#v, want nothing", exec.cmds)
	}
	mustContain(t, out,
		"error: service 'foo' is not valid.",
		"error: missing command for service 'notes'.",
		"error: cannot parse line",
		"in 'categories get'.")
}

// Operator characters reach the parser as text instead of ending the line.
func TestOperatorCharactersAreNotDispatchedPartially(t *testing.T) {
	reader := &scriptReader{lines: []string{"notes get 1; notes delete 2", "notes create t d | x", "notes create fish&chips yummy"}}
	exec := &fakeExec{}

	out := run(t, reader, exec, Config{})

	want := []command.Command{command.NotesCreate{Note: models.NoteIn{Title: "fish&chips", Data: "yummy"}}}
	if !reflect.DeepEqual(exec.cmds, want) {
		t.Errorf("dispatched %#v, want %#v", exec.cmds, want)
	}
	mustContain(t, out,
		"error: invalid value '1;' for '<id>'",
		"error: invalid value '|' for '<category_id>'")
}

func TestHelpGoesThroughExecutor(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, &scriptReader{lines: []string{"help notes"}}, exec, Config{})
	if len(exec.cmds) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(exec.cmds))
	}
	mustContain(t, out, "notes <SUB-COMMAND>")
}

func TestSpinnerWhileWaiting(t *testing.T) {
	exec := &fakeExec{delay: 60 * time.Millisecond}
	out := run(t, &scriptReader{lines: []string{"notes all"}}, exec, Config{SpinnerInterval: 5 * time.Millisecond})

	mustContain(t, out, "\rExecuting command -", "\rExecuting command \\", "ok\n")
}

func TestOneCommandInFlight(t *testing.T) {
	exec := &fakeExec{delay: 5 * time.Millisecond}
	lines := []string{"notes all", "notes get 1", "categories all", "notes delete 2", "categories get 3"}
	run(t, &scriptReader{lines: lines}, exec, Config{SpinnerInterval: time.Millisecond})

	if len(exec.cmds) != len(lines) {
		t.Fatalf("dispatched %d commands, want %d", len(exec.cmds), len(lines))
	}
	if n := exec.maxSeen.Load(); n != 1 {
		t.Errorf("max in flight = %d, want 1", n)
	}
	if exec.cmds[0] != (command.NotesAll{}) || exec.cmds[4] != (command.CategoriesGet{ID: 3}) {
		t.Errorf("order = %#v", exec.cmds)
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist")
	if err := os.WriteFile(path, []byte("notes all\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reader := &scriptReader{lines: []string{"categories all", " notes get 1", "categories all", "exit"}}
	run(t, reader, &fakeExec{}, Config{History: NewHistory(path, 0)})

	if want := []string{"notes all", "categories all", "exit"}; !slices.Equal(reader.history, want) {
		t.Errorf("reader history = %q, want %q", reader.history, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "notes all\ncategories all\nexit\n"; string(data) != want {
		t.Errorf("history file = %q, want %q", data, want)
	}
}

func TestHistoryFailuresAreIgnored(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened as a history file.
	path := filepath.Join(dir, "sub")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	out := run(t, &scriptReader{lines: []string{"notes all"}}, &fakeExec{}, Config{History: NewHistory(path, 0)})
	mustContain(t, out, "ok\n")
}

func TestPasswordPrompt(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	exec := &fakeExec{}
	out := run(t, &scriptReader{lines: []string{"auth login a@b.c -"}}, exec, Config{})

	if len(exec.cmds) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(exec.cmds))
	}
	if login := exec.cmds[0].(command.AuthLogin); login.Credentials.Password != "secret" {
		t.Errorf("password = %q, want prompted value", login.Credentials.Password)
	}
	mustContain(t, out, "Password: ")
}

func TestPasswordPromptFailure(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	exec := &fakeExec{}
	out := run(t, &scriptReader{lines: []string{"auth login a@b.c -"}}, exec, Config{})

	if len(exec.cmds) != 0 {
		t.Errorf("dispatched %#v, want nothing", exec.cmds)
	}
	mustContain(t, out, "not a terminal")
}

func TestBanner(t *testing.T) {
	mustContain(t, Banner("http://x"), "rnotes cli", "http://x")
}
