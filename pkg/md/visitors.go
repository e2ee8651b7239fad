// visitors.go holds the per-format render dispatch table for jinja_div nodes.
package md

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// ErrUnknownFormat indicates an output format outside Formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Format identifies an output format.
type Format string

const (
	FormatHTML    Format = "html"
	FormatLaTeX   Format = "latex"
	FormatText    Format = "text"
	FormatMan     Format = "man"
	FormatTexinfo Format = "texinfo"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatHTML, FormatLaTeX, FormatText, FormatMan, FormatTexinfo}

// Family groups formats that render jinja_div the same way.
type Family string

const (
	// FamilyStructured passes the template expression through inside a tagged container.
	FamilyStructured Family = "structured"
	// FamilyTypeset drops the template expression; the target cannot hold a live hook.
	FamilyTypeset Family = "typeset"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := visitors[f]; !ok {
		return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownFormat, s, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the names of Formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// Extension returns the conventional file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatLaTeX:
		return "tex"
	case FormatText:
		return "txt"
	case FormatMan:
		return "1"
	case FormatTexinfo:
		return "texi"
	default:
		return "html"
	}
}

// VisitFunc renders one side of a JinjaDiv.
type VisitFunc func(w util.BufWriter, source []byte, n *JinjaDiv) error

// Visitor is the enter/exit pair for one format.
type Visitor struct {
	Family Family
	Enter  VisitFunc
	Exit   VisitFunc
}

var structuredVisitor = Visitor{
	Family: FamilyStructured,
	Enter:  enterStructured,
	Exit:   exitStructured,
}

var typesetVisitor = Visitor{
	Family: FamilyTypeset,
	Enter:  enterTypeset,
	Exit:   exitTypeset,
}

// visitors maps each format to its visitor. text, man and texinfo share
// the HTML behaviour.
var visitors = map[Format]Visitor{
	FormatHTML:    structuredVisitor,
	FormatLaTeX:   typesetVisitor,
	FormatText:    structuredVisitor,
	FormatMan:     structuredVisitor,
	FormatTexinfo: structuredVisitor,
}

// LookupVisitor returns the Visitor for f. ok is false for unknown formats.
func LookupVisitor(f Format) (Visitor, bool) {
	v, ok := visitors[f]
	return v, ok
}

func enterStructured(w util.BufWriter, source []byte, n *JinjaDiv) error {
	txt := n.DetachPayload(source)
	if _, err := w.WriteString(startTag(n, "div")); err != nil {
		return err
	}
	_, err := w.WriteString("{{ " + txt + " }}\n")
	return err
}

func exitStructured(w util.BufWriter, _ []byte, _ *JinjaDiv) error {
	_, err := w.WriteString("</div>\n")
	return err
}

func enterTypeset(_ util.BufWriter, source []byte, n *JinjaDiv) error {
	n.DetachPayload(source)
	return nil
}

func exitTypeset(util.BufWriter, []byte, *JinjaDiv) error {
	return nil
}

// startTag renders an opening tag with class and id attributes, in that order.
func startTag(n *JinjaDiv, name string) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)
	sb.WriteString(` class="`)
	sb.Write(util.EscapeHTML([]byte(n.Class())))
	sb.WriteString(`"`)
	if n.ID != "" {
		sb.WriteString(` id="`)
		sb.Write(util.EscapeHTML([]byte(n.ID)))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}

// jinjaDivRenderer adapts a Visitor to goldmark's renderer.
type jinjaDivRenderer struct {
	visitor Visitor
}

// NewJinjaDivRenderer returns a NodeRenderer that renders JinjaDiv nodes for f.
func NewJinjaDivRenderer(f Format) (renderer.NodeRenderer, error) {
	v, ok := LookupVisitor(f)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
	return &jinjaDivRenderer{visitor: v}, nil
}

func (r *jinjaDivRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindJinjaDiv, r.render)
}

func (r *jinjaDivRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*JinjaDiv)
	visit := r.visitor.Exit
	if entering {
		visit = r.visitor.Enter
	}
	if err := visit(w, source, n); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, nil
}
