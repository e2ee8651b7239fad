// directive.go implements the construction rule for jinja_div blocks.
package md

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DirectiveName is the name written after the opening fence.
const DirectiveName = "jinja_div"

var (
	// ErrInvalidOption indicates an option key outside {id, class}.
	ErrInvalidOption = errors.New("invalid option")
	// ErrTooManyArguments indicates more than one positional argument.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrInvalidIdentifier indicates a positional argument that cannot be used as an id.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// optionSpec lists the accepted option keys.
var optionSpec = map[string]bool{
	"id":    true,
	"class": true,
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)

// DirectiveOption is a single `:key: value` line.
type DirectiveOption struct {
	Key   string
	Value string
}

// Directive is one occurrence of a jinja_div block as written in source:
// its positional arguments, options and body lines.
type Directive struct {
	Arguments []string
	Options   []DirectiveOption
	Content   []string
}

// Option returns the value of the last option with the given key.
func (d *Directive) Option(key string) (string, bool) {
	for i := len(d.Options) - 1; i >= 0; i-- {
		if d.Options[i].Key == key {
			return d.Options[i].Value, true
		}
	}
	return "", false
}

// Run validates the directive and builds its node. On error no node is returned.
// Children are not attached here; the block parser lets goldmark parse the
// body into the returned node's children.
func (d *Directive) Run() (*JinjaDiv, error) {
	for _, opt := range d.Options {
		if !optionSpec[opt.Key] {
			return nil, fmt.Errorf("%w %q: accepted options are \"class\" and \"id\"", ErrInvalidOption, opt.Key)
		}
	}
	if len(d.Arguments) > 1 {
		return nil, fmt.Errorf("%w: %s accepts at most 1 argument, got %d", ErrTooManyArguments, DirectiveName, len(d.Arguments))
	}

	node := NewJinjaDiv()
	class, _ := d.Option("class")
	node.Tags = []string{BaseTag, class}

	if len(d.Arguments) == 1 {
		id := d.Arguments[0]
		if !identifierPattern.MatchString(id) {
			return nil, fmt.Errorf("%w %q", ErrInvalidIdentifier, id)
		}
		node.ID = id
	}

	node.SourceText = joinContent(d.Content)
	return node, nil
}

// joinContent joins body lines with newlines, dropping blank lines at both ends.
func joinContent(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// parseOptionLine parses a `:key: value` line. ok is false when the line is
// not in option syntax at all.
func parseOptionLine(line string) (DirectiveOption, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 3 || line[0] != ':' {
		return DirectiveOption{}, false
	}
	end := strings.IndexByte(line[1:], ':')
	if end < 1 {
		return DirectiveOption{}, false
	}
	key := line[1 : end+1]
	if strings.ContainsAny(key, " \t") {
		return DirectiveOption{}, false
	}
	return DirectiveOption{
		Key:   strings.ToLower(key),
		Value: strings.TrimSpace(line[end+2:]),
	}, true
}

// splitArguments splits the fence's argument string on spaces, keeping
// quoted values together: `a "b c"` yields ["a", "b c"].
func splitArguments(s string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	flush := func() {
		if current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return args
}
