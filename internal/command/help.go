package command

import (
	"fmt"
	"strings"
)

// placeholder is the program name every raw help block is rendered under.
const placeholder = "_cmd"

// Usage returns the cleaned help of the whole grammar.
func (g *Grammar) Usage() string {
	return Clean(g.rawHelp())
}

// ServiceUsage returns the cleaned help of one command service.
func (g *Grammar) ServiceUsage(service string) (string, error) {
	s, ok := g.Service(service)
	if !ok || s.kind != commandsService {
		return "", unknownService(service)
	}
	return Clean(s.rawHelp(), s.Name), nil
}

// CommandUsage returns the cleaned help of one sub-command.
func (g *Grammar) CommandUsage(service, name string) (string, error) {
	s, ok := g.Service(service)
	if !ok || s.kind != commandsService {
		return "", unknownService(service)
	}
	c, ok := s.Command(name)
	if !ok {
		return "", unknownCommand(service, name)
	}
	return Clean(c.rawHelp(), s.Name, c.Name), nil
}

// Clean turns a raw help block into user-facing text. The header line is
// dropped and placeholders are rewritten for the node at path: no path is
// the whole grammar, one element a service, two a sub-command.
func Clean(raw string, path ...string) string {
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[i+1:]
	} else {
		raw = ""
	}

	name := strings.Join(path, " ")
	child, section := "<SERVICE>", "SERVICES:"
	if len(path) > 0 {
		child, section = name+" <SUB-COMMAND>", "SUB-COMMANDS:"
	}

	r := strings.NewReplacer(
		placeholder+" <SUBCOMMAND>", child,
		"SUBCOMMANDS:", section,
		placeholder, name,
	)
	return strings.TrimSpace(r.Replace(raw))
}

func (g *Grammar) rawHelp() string {
	entries := make([][2]string, 0, len(g.Services))
	for _, s := range g.Services {
		entries = append(entries, [2]string{s.Name, s.About})
	}
	return rawBlock(g.About, placeholder+" <SUBCOMMAND>", "SUBCOMMANDS:", entries)
}

func (s *Service) rawHelp() string {
	entries := make([][2]string, 0, len(s.Commands))
	for _, c := range s.Commands {
		entries = append(entries, [2]string{c.Name, c.About})
	}
	return rawBlock(s.About, placeholder+" <SUBCOMMAND>", "SUBCOMMANDS:", entries)
}

func (c *SubCommand) rawHelp() string {
	usage := placeholder
	entries := make([][2]string, 0, len(c.Args))
	for _, a := range c.Args {
		if a.Kind.optional() {
			usage += " [" + a.Name + "]"
		} else {
			usage += " <" + a.Name + ">"
		}
		entries = append(entries, [2]string{"<" + a.Name + ">", a.About})
	}
	if len(entries) == 0 {
		return rawBlock(c.About, usage, "", nil)
	}
	return rawBlock(c.About, usage, "ARGS:", entries)
}

func rawBlock(about, usage, section string, entries [][2]string) string {
	var b strings.Builder
	b.WriteString(placeholder + "\n")
	b.WriteString(about + "\n\n")
	b.WriteString("USAGE:\n")
	b.WriteString("    " + usage + "\n")
	if section == "" {
		return b.String()
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e[0]))
	}
	b.WriteString("\n" + section + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "    %-*s    %s\n", width, e[0], e[1])
	}
	return b.String()
}
