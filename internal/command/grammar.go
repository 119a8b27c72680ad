package command

import "github.com/starford/rnotes/internal/models"

// ArgKind is the declared type of a positional argument.
type ArgKind int

const (
	// String is taken verbatim and must not be empty.
	String ArgKind = iota
	// Int32 is a required signed 32-bit integer.
	Int32
	// OptionalInt32 is a trailing signed 32-bit integer that may be omitted.
	OptionalInt32
	// OptionalString is a trailing word that may be omitted.
	OptionalString
)

func (k ArgKind) optional() bool {
	return k == OptionalInt32 || k == OptionalString
}

// Arg is one positional argument of a sub-command.
type Arg struct {
	Name  string
	About string
	Kind  ArgKind
}

// SubCommand is the second word of a line together with its arguments.
type SubCommand struct {
	Name  string
	About string
	Args  []Arg
	build func(v values) Command
}

type serviceKind int

const (
	commandsService serviceKind = iota
	helpService
	exitService
)

// Service is a first word of a line. Only command services have
// sub-commands; help and exit are handled by the parser itself.
type Service struct {
	Name     string
	About    string
	Commands []*SubCommand
	kind     serviceKind
}

// Command returns the sub-command called name.
func (s *Service) Command(name string) (*SubCommand, bool) {
	for _, c := range s.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Grammar is the full interactive command grammar.
type Grammar struct {
	About    string
	Services []*Service
}

// Service returns the top-level entry called name, including help and exit.
func (g *Grammar) Service(name string) (*Service, bool) {
	for _, s := range g.Services {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Paths lists every "service" and "service sub-command" path in
// declaration order. Help and exit are not included.
func (g *Grammar) Paths() []string {
	var out []string
	for _, s := range g.Services {
		if s.kind != commandsService {
			continue
		}
		out = append(out, s.Name)
		for _, c := range s.Commands {
			out = append(out, s.Name+" "+c.Name)
		}
	}
	return out
}

// Default is the rnotes-cli grammar.
var Default = newGrammar()

func newGrammar() *Grammar {
	id := func(about string) Arg { return Arg{Name: "id", About: about, Kind: Int32} }
	title := Arg{Name: "title", About: "Title of the note.", Kind: String}
	data := Arg{Name: "data", About: "Data of the note.", Kind: String}
	category := Arg{Name: "category_id", About: "Id of the category [Optional].", Kind: OptionalInt32}

	noteIn := func(v values) models.NoteIn {
		return models.NoteIn{
			Title:      v.str("title"),
			Data:       v.str("data"),
			CategoryID: v.optInt32("category_id"),
		}
	}

	return &Grammar{
		About: "List of available services for rnotes command cli.",
		Services: []*Service{
			{
				Name:  "auth",
				About: "Auth services.",
				Commands: []*SubCommand{
					{
						Name:  "login",
						About: "Login to the server.",
						Args: []Arg{
							{Name: "email", About: "Email used to login.", Kind: String},
							{Name: "password", About: "Password used to login, '-' to be prompted.", Kind: String},
						},
						build: func(v values) Command {
							return AuthLogin{Credentials: models.LoginIn{
								Email:    v.str("email"),
								Password: v.str("password"),
							}}
						},
					},
				},
			},
			{
				Name:  "categories",
				About: "Categories services.",
				Commands: []*SubCommand{
					{
						Name:  "all",
						About: "Get all categories.",
						build: func(values) Command { return CategoriesAll{} },
					},
					{
						Name:  "get",
						About: "Get a category.",
						Args:  []Arg{id("Id of the category.")},
						build: func(v values) Command { return CategoriesGet{ID: v.int32("id")} },
					},
				},
			},
			{
				Name:  "notes",
				About: "Notes services.",
				Commands: []*SubCommand{
					{
						Name:  "all",
						About: "Get all notes.",
						build: func(values) Command { return NotesAll{} },
					},
					{
						Name:  "get",
						About: "Get a note.",
						Args:  []Arg{id("Id of the note.")},
						build: func(v values) Command { return NotesGet{ID: v.int32("id")} },
					},
					{
						Name:  "create",
						About: "Create a note.",
						Args:  []Arg{title, data, category},
						build: func(v values) Command { return NotesCreate{Note: noteIn(v)} },
					},
					{
						Name:  "update",
						About: "Update a note.",
						Args:  []Arg{id("Id of the note."), title, data, category},
						build: func(v values) Command {
							return NotesUpdate{ID: v.int32("id"), Note: noteIn(v)}
						},
					},
					{
						Name:  "delete",
						About: "Delete a note.",
						Args:  []Arg{id("Id of the note.")},
						build: func(v values) Command { return NotesDelete{ID: v.int32("id")} },
					},
				},
			},
			{Name: "help", About: "Help services.", kind: helpService},
			{Name: "exit", About: "Exit rnotes command cli.", kind: exitService},
		},
	}
}

// values holds bound arguments keyed by Arg.Name.
type values map[string]any

func (v values) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) int32(name string) int32 {
	n, _ := v[name].(int32)
	return n
}

func (v values) optInt32(name string) *int32 {
	n, ok := v[name].(int32)
	if !ok {
		return nil
	}
	return &n
}
