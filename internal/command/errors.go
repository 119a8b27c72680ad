package command

import "fmt"

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// UnknownService means the first word is not a service.
	UnknownService ErrorKind = iota + 1
	// UnknownCommand means the second word is not a sub-command of the service.
	UnknownCommand
	// MissingArgument means a service was given without a sub-command.
	MissingArgument
	// Malformed covers wrong arity, bad integers and unsplittable lines.
	Malformed
	// Exit asks the shell to terminate. It is not a user mistake.
	Exit
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownService:
		return "unknown service"
	case UnknownCommand:
		return "unknown command"
	case MissingArgument:
		return "missing argument"
	case Malformed:
		return "malformed"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is returned by Parse and ParseLine.
type ParseError struct {
	Kind    ErrorKind
	Service string
	Command string
	Message string
}

// ErrExit is returned for the exit command.
var ErrExit = &ParseError{Kind: Exit}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnknownService:
		return fmt.Sprintf("error: service '%s' is not valid.", e.Service)
	case UnknownCommand:
		return fmt.Sprintf("error: command '%s' for service '%s' is not valid.", e.Command, e.Service)
	case MissingArgument:
		return fmt.Sprintf("error: missing command for service '%s'.", e.Service)
	case Malformed:
		if e.Service == "" {
			return "error: " + e.Message
		}
		path := e.Service
		if e.Command != "" {
			path += " " + e.Command
		}
		return fmt.Sprintf("error: %s in '%s'.", e.Message, path)
	case Exit:
		return "exit"
	default:
		return "error: " + e.Message
	}
}

// Is reports whether target is a *ParseError of the same kind, so that
// errors.Is(err, ErrExit) works for any exit error.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func unknownService(service string) *ParseError {
	return &ParseError{Kind: UnknownService, Service: service}
}

func unknownCommand(service, name string) *ParseError {
	return &ParseError{Kind: UnknownCommand, Service: service, Command: name}
}

func missingArgument(service string) *ParseError {
	return &ParseError{Kind: MissingArgument, Service: service}
}

func malformed(service, name, format string, args ...any) *ParseError {
	return &ParseError{Kind: Malformed, Service: service, Command: name, Message: fmt.Sprintf(format, args...)}
}
