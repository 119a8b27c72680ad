package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Parse parses already split words with the Default grammar.
func Parse(tokens []string) (Command, error) {
	return Default.Parse(tokens)
}

// ParseLine splits line into shell words (quotes and escapes honoured) and
// parses them with the Default grammar.
func ParseLine(line string) (Command, error) {
	tokens, err := Split(line)
	if err != nil {
		return nil, err
	}
	return Default.Parse(tokens)
}

// Split splits line into POSIX shell words. Operator characters such as
// ';', '&' and '|' are ordinary text. A failure is reported as a Malformed
// ParseError naming the line.
func Split(line string) ([]string, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, &ParseError{Kind: Malformed, Message: fmt.Sprintf("cannot parse line '%s': %s", strings.TrimSpace(line), err)}
	}
	return tokens, nil
}

// Parse turns tokens into a Command. Every failure is a *ParseError; the
// exit command yields ErrExit.
func (g *Grammar) Parse(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Nothing{}, nil
	}

	srv, ok := g.Service(tokens[0])
	if !ok {
		return nil, unknownService(tokens[0])
	}
	rest := tokens[1:]

	switch srv.kind {
	case exitService:
		if len(rest) > 0 {
			return nil, malformed(srv.Name, "", "unexpected argument '%s'", rest[0])
		}
		return nil, ErrExit
	case helpService:
		return g.parseHelp(rest)
	}

	if len(rest) == 0 {
		return nil, missingArgument(srv.Name)
	}
	sub, ok := srv.Command(rest[0])
	if !ok {
		return nil, unknownCommand(srv.Name, rest[0])
	}
	v, err := sub.bind(srv.Name, rest[1:])
	if err != nil {
		return nil, err
	}
	return sub.build(v), nil
}

func (g *Grammar) parseHelp(args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Help{Text: g.Usage()}, nil
	case 1:
		text, err := g.ServiceUsage(args[0])
		if err != nil {
			return nil, err
		}
		return Help{Text: text}, nil
	case 2:
		text, err := g.CommandUsage(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return Help{Text: text}, nil
	default:
		return nil, malformed("help", "", "unexpected argument '%s'", args[2])
	}
}

// bind coerces tokens into the declared arguments of c.
func (c *SubCommand) bind(service string, tokens []string) (values, error) {
	v := make(values, len(c.Args))
	for i, a := range c.Args {
		if i >= len(tokens) {
			if a.Kind.optional() {
				continue
			}
			return nil, malformed(service, c.Name, "missing required argument '<%s>'", a.Name)
		}
		tok := tokens[i]
		switch a.Kind {
		case String, OptionalString:
			if tok == "" {
				return nil, malformed(service, c.Name, "empty value for '<%s>'", a.Name)
			}
			v[a.Name] = tok
		case Int32, OptionalInt32:
			n, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				return nil, malformed(service, c.Name, "invalid value '%s' for '<%s>': %s", tok, a.Name, numErrReason(err))
			}
			v[a.Name] = int32(n)
		}
	}
	if len(tokens) > len(c.Args) {
		return nil, malformed(service, c.Name, "unexpected argument '%s'", tokens[len(c.Args)])
	}
	return v, nil
}

func numErrReason(err error) string {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		if errors.Is(ne.Err, strconv.ErrRange) {
			return "number out of range"
		}
		return "not an integer"
	}
	return err.Error()
}
