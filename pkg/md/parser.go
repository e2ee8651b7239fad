// parser.go implements the goldmark block parser for jinja_div fences.
package md

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// fenceChar opens and closes a directive block.
const fenceChar = ':'

// fenceState tracks one open jinja_div block while it is being parsed.
type fenceState struct {
	length    int  // number of colons in the opening fence
	inOptions bool // still reading `:key: value` lines
}

var fenceStateKey = parser.NewContextKey()

type jinjaDivParser struct{}

// NewJinjaDivParser returns a BlockParser for jinja_div fences.
func NewJinjaDivParser() parser.BlockParser {
	return &jinjaDivParser{}
}

func (b *jinjaDivParser) Trigger() []byte {
	return []byte{fenceChar}
}

func (b *jinjaDivParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != fenceChar {
		return nil, parser.NoChildren
	}

	i := pos
	for ; i < len(line) && line[i] == fenceChar; i++ {
	}
	length := i - pos
	if length < 3 {
		return nil, parser.NoChildren
	}

	name, args, ok := parseFenceInfo(line[i:])
	if !ok || name != DirectiveName {
		return nil, parser.NoChildren
	}

	lineNum, _ := reader.Position()
	node := NewJinjaDiv()
	node.line = lineNum + 1
	if offset, ok := pc.Get(lineOffsetKey).(int); ok {
		node.line += offset
	}
	node.directive = &Directive{Arguments: args}

	states := fenceStates(pc)
	states[node] = &fenceState{length: length, inOptions: true}

	reader.Advance(segment.Len() - trailingNewline(line))
	return node, parser.HasChildren
}

func (b *jinjaDivParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*JinjaDiv)
	state := fenceStates(pc)[n]
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	if isClosingFence(line, reader.LineOffset(), state.length) {
		reader.Advance(segment.Len() - trailingNewline(line))
		return parser.Close
	}

	if state.inOptions {
		if opt, ok := parseOptionLine(string(line)); ok {
			n.directive.Options = append(n.directive.Options, opt)
			reader.Advance(segment.Len() - trailingNewline(line))
			return parser.Continue | parser.NoChildren
		}
		state.inOptions = false
	}

	n.directive.Content = append(n.directive.Content, strings.TrimRight(string(line), "\r\n"))
	return parser.Continue | parser.HasChildren
}

func (b *jinjaDivParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*JinjaDiv)
	delete(fenceStates(pc), n)

	built, err := n.directive.Run()
	if err != nil {
		n.Err = err
		return
	}
	n.ID = built.ID
	n.Tags = built.Tags
	n.SourceText = built.SourceText
	n.directive = nil
}

func (b *jinjaDivParser) CanInterruptParagraph() bool {
	return true
}

func (b *jinjaDivParser) CanAcceptIndentedLine() bool {
	return false
}

func fenceStates(pc parser.Context) map[*JinjaDiv]*fenceState {
	if v, ok := pc.Get(fenceStateKey).(map[*JinjaDiv]*fenceState); ok {
		return v
	}
	states := make(map[*JinjaDiv]*fenceState)
	pc.Set(fenceStateKey, states)
	return states
}

// parseFenceInfo reads `jinja_div arg...` or `{jinja_div} arg...` after the colons.
func parseFenceInfo(rest []byte) (string, []string, bool) {
	info := strings.TrimSpace(string(rest))
	if info == "" {
		return "", nil, false
	}
	name, args, _ := strings.Cut(info, " ")
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		name = name[1 : len(name)-1]
	}
	return name, splitArguments(args), true
}

// isClosingFence reports whether line is a bare run of at least length colons.
func isClosingFence(line []byte, offset, length int) bool {
	w, pos := util.IndentWidth(line, offset)
	if w >= 4 {
		return false
	}
	i := pos
	for ; i < len(line) && line[i] == fenceChar; i++ {
	}
	return i-pos >= length && util.IsBlank(line[i:])
}

func trailingNewline(line []byte) int {
	if bytes.HasSuffix(line, []byte("\n")) {
		return 1
	}
	return 0
}
