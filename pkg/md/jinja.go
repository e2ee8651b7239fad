// jinja.go defines the jinja_div AST node.
package md

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// BaseTag is the class every jinja_div node carries first.
const BaseTag = "jinja"

// KindJinjaDiv is the goldmark node kind of JinjaDiv.
var KindJinjaDiv = ast.NewNodeKind("JinjaDiv")

// JinjaDiv is a block container whose first child holds a template
// expression. Rendering consumes that child (see DetachPayload).
type JinjaDiv struct {
	ast.BaseBlock

	ID         string   // optional identifier, empty when absent
	Tags       []string // always [BaseTag, class]
	SourceText string   // raw body text as written

	// Err is set when the directive was invalid. Such nodes are replaced
	// by a SystemMessage before rendering.
	Err error

	directive *Directive
	line      int
}

// NewJinjaDiv returns an empty node tagged with BaseTag only.
func NewJinjaDiv() *JinjaDiv {
	return &JinjaDiv{Tags: []string{BaseTag, ""}}
}

// Kind implements ast.Node.
func (n *JinjaDiv) Kind() ast.NodeKind {
	return KindJinjaDiv
}

// Dump implements ast.Node.
func (n *JinjaDiv) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":   n.ID,
		"Tags": strings.Join(n.Tags, ","),
	}, nil)
}

// Class returns the tags as a space separated class attribute value.
func (n *JinjaDiv) Class() string {
	return strings.TrimSpace(strings.Join(n.Tags, " "))
}

// Line returns the 1-based source line of the opening fence.
func (n *JinjaDiv) Line() int {
	return n.line
}

// DetachPayload removes the first child and returns its text.
// This is destructive: a second call consumes the next child, so a node
// can be rendered only once. A node without children yields "".
func (n *JinjaDiv) DetachPayload(source []byte) string {
	first := n.FirstChild()
	if first == nil {
		return ""
	}
	txt := nodeText(first, source)
	n.RemoveChild(n, first)
	return txt
}

// DisplayText returns the text of t as a reader sees it: backslash escapes
// and entity references are resolved unless t is raw.
func DisplayText(t *ast.Text, source []byte) []byte {
	v := t.Segment.Value(source)
	if t.IsRaw() {
		return v
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

// nodeText flattens a node to its text content. Leaf blocks without inline
// children (code blocks, HTML blocks) contribute their raw lines.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	writeNodeText(&sb, n, source)
	return strings.TrimRight(sb.String(), "\n")
}

func writeNodeText(sb *strings.Builder, n ast.Node, source []byte) {
	switch node := n.(type) {
	case *ast.Text:
		sb.Write(DisplayText(node, source))
		if node.SoftLineBreak() || node.HardLineBreak() {
			sb.WriteByte('\n')
		}
		return
	case *ast.String:
		sb.Write(node.Value)
		return
	case *ast.RawHTML:
		sb.Write(node.Segments.Value(source))
		return
	case *ast.AutoLink:
		sb.Write(node.URL(source))
		return
	}

	if !n.HasChildren() {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(source))
			}
		}
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeNodeText(sb, c, source)
		if c.Type() == ast.TypeBlock && c.NextSibling() != nil {
			sb.WriteByte('\n')
		}
	}
}
