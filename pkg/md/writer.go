// writer.go renders CommonMark nodes to the non-HTML formats.
package md

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// syntax describes how one markup format spells each CommonMark construct.
type syntax struct {
	escape      func(string) string
	literalLine func(string) string // one line of a code block, newline included

	heading       func(level int, title string) (string, string)
	paragraph     [2]string
	emphasis      func(level int) (string, string)
	codeSpan      [2]string
	codeBlock     [2]string
	blockquote    [2]string
	quoteIndent   string
	list          func(ordered bool) (string, string)
	item          func(ordered bool, number int) string
	itemIndent    string
	thematicBreak string
	link          func(dest string) (string, string)
	hardBreak     string
	message       func(d Diagnostic) string

	preamble  func(meta map[string]interface{}) string
	postamble func(meta map[string]interface{}) string
}

// formatWriter is a goldmark NodeRenderer for a syntax.
type formatWriter struct {
	syntax     syntax
	visitor    Visitor
	standalone bool

	indent  []string
	numbers []int
	lastOut byte
}

func newFormatWriter(s syntax, v Visitor, standalone bool) *formatWriter {
	return &formatWriter{syntax: s, visitor: v, standalone: standalone, lastOut: '\n'}
}

var _ renderer.NodeRenderer = (*formatWriter)(nil)

func (r *formatWriter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindDocument, r.document)
	reg.Register(ast.KindHeading, r.heading)
	reg.Register(ast.KindParagraph, r.paragraph)
	reg.Register(ast.KindTextBlock, r.textBlock)
	reg.Register(ast.KindBlockquote, r.blockquote)
	reg.Register(ast.KindList, r.list)
	reg.Register(ast.KindListItem, r.listItem)
	reg.Register(ast.KindFencedCodeBlock, r.codeBlock)
	reg.Register(ast.KindCodeBlock, r.codeBlock)
	reg.Register(ast.KindThematicBreak, r.thematicBreak)
	reg.Register(ast.KindHTMLBlock, r.skip)

	reg.Register(ast.KindText, r.text)
	reg.Register(ast.KindString, r.str)
	reg.Register(ast.KindEmphasis, r.emphasis)
	reg.Register(ast.KindCodeSpan, r.codeSpan)
	reg.Register(ast.KindLink, r.link)
	reg.Register(ast.KindAutoLink, r.autoLink)
	reg.Register(ast.KindImage, r.image)
	reg.Register(ast.KindRawHTML, r.skip)

	reg.Register(KindSystemMessage, r.systemMessage)
	reg.Register(KindJinjaDiv, r.jinjaDiv)
}

func (r *formatWriter) lit(w util.BufWriter, s string) {
	if s == "" {
		return
	}
	if r.lastOut == '\n' && len(r.indent) > 0 && s != "\n" {
		_, _ = w.WriteString(strings.Join(r.indent, ""))
	}
	_, _ = w.WriteString(s)
	r.lastOut = s[len(s)-1]
}

func (r *formatWriter) cr(w util.BufWriter) {
	if r.lastOut != '\n' {
		r.lit(w, "\n")
	}
}

func (r *formatWriter) document(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.lastOut = '\n'
		r.indent = nil
		r.numbers = nil
	}
	if !r.standalone {
		return ast.WalkContinue, nil
	}
	meta := n.(*ast.Document).Meta()
	if entering {
		if r.syntax.preamble != nil {
			r.lit(w, r.syntax.preamble(meta))
		}
	} else if r.syntax.postamble != nil {
		r.cr(w)
		r.lit(w, r.syntax.postamble(meta))
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) heading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*ast.Heading)
	open, closing := r.syntax.heading(node.Level, nodeText(node, source))
	if entering {
		r.cr(w)
		r.lit(w, open)
	} else {
		r.lit(w, closing)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) paragraph(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		// The item marker already opened the first paragraph of a loose item.
		if leadsListItem(n) {
			return ast.WalkContinue, nil
		}
		r.cr(w)
		r.lit(w, r.syntax.paragraph[0])
	} else {
		r.lit(w, r.syntax.paragraph[1])
	}
	return ast.WalkContinue, nil
}

func leadsListItem(n ast.Node) bool {
	return n.PreviousSibling() == nil && n.Parent() != nil && n.Parent().Kind() == ast.KindListItem
}

func (r *formatWriter) textBlock(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		r.cr(w)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) blockquote(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.cr(w)
		r.lit(w, r.syntax.blockquote[0])
		r.indent = append(r.indent, r.syntax.quoteIndent)
	} else {
		r.indent = r.indent[:len(r.indent)-1]
		r.cr(w)
		r.lit(w, r.syntax.blockquote[1])
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) list(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*ast.List)
	open, closing := r.syntax.list(node.IsOrdered())
	if entering {
		r.cr(w)
		r.lit(w, open)
		r.numbers = append(r.numbers, node.Start)
	} else {
		r.numbers = r.numbers[:len(r.numbers)-1]
		r.cr(w)
		r.lit(w, closing)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) listItem(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	ordered := false
	if list, ok := n.Parent().(*ast.List); ok {
		ordered = list.IsOrdered()
	}
	if entering {
		r.cr(w)
		top := len(r.numbers) - 1
		r.lit(w, r.syntax.item(ordered, r.numbers[top]))
		r.numbers[top]++
		r.indent = append(r.indent, r.syntax.itemIndent)
	} else {
		r.indent = r.indent[:len(r.indent)-1]
		r.cr(w)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) codeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		r.cr(w)
		r.lit(w, r.syntax.codeBlock[1])
		return ast.WalkContinue, nil
	}
	r.cr(w)
	r.lit(w, r.syntax.codeBlock[0])
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.lit(w, r.syntax.literalLine(string(line.Value(source))))
	}
	return ast.WalkSkipChildren, nil
}

func (r *formatWriter) thematicBreak(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.cr(w)
		r.lit(w, r.syntax.thematicBreak)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) skip(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *formatWriter) text(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*ast.Text)
	s := string(DisplayText(node, source))
	if node.IsRaw() {
		r.lit(w, s)
	} else {
		r.lit(w, r.syntax.escape(s))
	}
	switch {
	case node.HardLineBreak():
		r.lit(w, r.syntax.hardBreak)
	case node.SoftLineBreak():
		r.lit(w, "\n")
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) str(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		node := n.(*ast.String)
		if node.IsRaw() || node.IsCode() {
			r.lit(w, string(node.Value))
		} else {
			r.lit(w, r.syntax.escape(string(node.Value)))
		}
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) emphasis(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	open, closing := r.syntax.emphasis(n.(*ast.Emphasis).Level)
	if entering {
		r.lit(w, open)
	} else {
		r.lit(w, closing)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) codeSpan(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.lit(w, r.syntax.codeSpan[0])
	} else {
		r.lit(w, r.syntax.codeSpan[1])
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) link(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	open, closing := r.syntax.link(string(n.(*ast.Link).Destination))
	if entering {
		r.lit(w, open)
	} else {
		r.lit(w, closing)
	}
	return ast.WalkContinue, nil
}

func (r *formatWriter) autoLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		url := string(n.(*ast.AutoLink).URL(source))
		open, closing := r.syntax.link(url)
		r.lit(w, open+r.syntax.escape(url)+closing)
	}
	return ast.WalkSkipChildren, nil
}

func (r *formatWriter) image(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		alt := nodeText(n, source)
		if alt == "" {
			alt = string(n.(*ast.Image).Destination)
		}
		r.lit(w, r.syntax.escape(alt))
	}
	return ast.WalkSkipChildren, nil
}

func (r *formatWriter) systemMessage(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.cr(w)
		r.lit(w, r.syntax.message(n.(*SystemMessage).Diagnostic))
	}
	return ast.WalkSkipChildren, nil
}

// jinjaDiv runs the format's visitor into a buffer and writes the result
// line by line so it follows the current indent.
func (r *formatWriter) jinjaDiv(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	visit := r.visitor.Exit
	if entering {
		visit = r.visitor.Enter
	}

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := visit(bw, source, n.(*JinjaDiv)); err != nil {
		return ast.WalkStop, err
	}
	if err := bw.Flush(); err != nil {
		return ast.WalkStop, err
	}
	if buf.Len() == 0 {
		return ast.WalkContinue, nil
	}

	r.cr(w)
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		r.lit(w, line)
	}
	return ast.WalkContinue, nil
}

// metaString reads a string value from document metadata.
func metaString(meta map[string]interface{}, key, fallback string) string {
	switch v := meta[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case int:
		return strconv.Itoa(v)
	}
	return fallback
}
