// Package command defines the interactive grammar of rnotes-cli: the typed
// commands a line can produce, the parser that builds them from shell words,
// the help text for every grammar node and the hint set used for completion.
package command

import "github.com/starford/rnotes/internal/models"

// Command is the result of parsing one input line. The set of variants is
// closed; use a type switch to consume it.
type Command interface {
	command()
}

// AuthCommand is a Command handled by the auth service.
type AuthCommand interface {
	Command
	auth()
}

// CategoriesCommand is a Command handled by the categories service.
type CategoriesCommand interface {
	Command
	categories()
}

// NotesCommand is a Command handled by the notes service.
type NotesCommand interface {
	Command
	notes()
}

// Nothing is produced by an empty line.
type Nothing struct{}

// Help carries ready-to-print usage text.
type Help struct {
	Text string
}

// AuthLogin logs in with an email and a clear-text password. The password
// is digested before it leaves the process.
type AuthLogin struct {
	Credentials models.LoginIn
}

// CategoriesAll lists every category.
type CategoriesAll struct{}

// CategoriesGet fetches one category.
type CategoriesGet struct {
	ID int32
}

// NotesAll lists the notes of the logged in user.
type NotesAll struct{}

// NotesGet fetches one note.
type NotesGet struct {
	ID int32
}

// NotesCreate creates a note.
type NotesCreate struct {
	Note models.NoteIn
}

// NotesUpdate replaces the title, data and category of a note.
type NotesUpdate struct {
	ID   int32
	Note models.NoteIn
}

// NotesDelete deletes a note.
type NotesDelete struct {
	ID int32
}

func (Nothing) command() {}
func (Help) command()    {}

func (AuthLogin) command() {}
func (AuthLogin) auth()    {}

func (CategoriesAll) command()    {}
func (CategoriesAll) categories() {}
func (CategoriesGet) command()    {}
func (CategoriesGet) categories() {}

func (NotesAll) command()    {}
func (NotesAll) notes()      {}
func (NotesGet) command()    {}
func (NotesGet) notes()      {}
func (NotesCreate) command() {}
func (NotesCreate) notes()   {}
func (NotesUpdate) command() {}
func (NotesUpdate) notes()   {}
func (NotesDelete) command() {}
func (NotesDelete) notes()   {}
