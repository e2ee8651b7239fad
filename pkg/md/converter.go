// Package md provides the jinja_div markdown extension: a block construct that
// wraps a template expression, parsed once with goldmark and rendered for
// HTML, LaTeX, plain text, man and Texinfo.
package md

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/adrg/frontmatter"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrConversion indicates rendering a parsed document failed.
var ErrConversion = errors.New("conversion failed")

// Priorities relative to goldmark's defaults (fenced code 700, paragraph 1000).
const (
	priorityJinjaDivParser      = 650
	priorityDirectiveTransform  = 100
	priorityJinjaDivRenderer    = 500
	priorityFormatWriter        = 400 // renders JinjaDiv itself to keep list and quote indents
	prioritySystemMessageRender = 500
)

// htmlTemplate wraps the HTML fragment in a complete document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="jdiv %s">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// Extension registers the jinja_div parser, transformer and renderer for
// one output format with a goldmark instance.
type Extension struct {
	format  Format
	version string
}

// NewExtension returns the extension for format f. version is reported by
// Metadata and is supplied by the caller rather than looked up globally.
func NewExtension(f Format, version string) (*Extension, error) {
	if _, ok := LookupVisitor(f); !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
	return &Extension{format: f, version: version}, nil
}

// Metadata describes the extension to the host.
func (e *Extension) Metadata() map[string]string {
	return map[string]string{
		"name":    DirectiveName,
		"format":  string(e.format),
		"version": e.version,
	}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(NewJinjaDivParser(), priorityJinjaDivParser)),
		parser.WithASTTransformers(util.Prioritized(NewDirectiveTransformer(), priorityDirectiveTransform)),
	)

	r, _ := NewJinjaDivRenderer(e.format)
	nodeRenderers := []util.PrioritizedValue{util.Prioritized(r, priorityJinjaDivRenderer)}
	if e.format == FormatHTML {
		nodeRenderers = append(nodeRenderers, util.Prioritized(&systemMessageHTMLRenderer{}, prioritySystemMessageRender))
	}
	m.Renderer().AddOptions(renderer.WithNodeRenderers(nodeRenderers...))
}

// Metadata is the YAML front matter a document may start with.
type Metadata struct {
	Title   string `yaml:"title" json:"title,omitempty"`
	Section string `yaml:"section" json:"section,omitempty"`
	Date    string `yaml:"date" json:"date,omitempty"`
}

// Document is a parsed source ready to be rendered once.
type Document struct {
	Root        ast.Node
	Source      []byte
	Meta        Metadata
	Diagnostics []Diagnostic
	Names       map[string]int
}

// Result is the outcome of a Convert call.
type Result struct {
	Output      string
	Meta        Metadata
	Diagnostics []Diagnostic
}

// Option configures a Converter.
type Option func(*Converter)

// WithFormat selects the output format (default html).
func WithFormat(f Format) Option {
	return func(c *Converter) {
		c.format = f
	}
}

// WithStandalone wraps output in a complete document for the format.
func WithStandalone(standalone bool) Option {
	return func(c *Converter) {
		c.standalone = standalone
	}
}

// WithHighlighting enables chroma syntax highlighting of fenced code in HTML
// output using the named style. It has no effect on other formats.
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.highlightStyle = style
	}
}

// WithVersion sets the version reported by the extension and written to
// standalone headers.
func WithVersion(version string) Option {
	return func(c *Converter) {
		c.version = version
	}
}

// Converter parses markdown with jinja_div blocks and renders one format.
// A Converter keeps rendering state and must not be used concurrently.
type Converter struct {
	format         Format
	standalone     bool
	highlightStyle string
	version        string

	ext *Extension
	md  goldmark.Markdown
}

// NewConverter builds a Converter. It fails for unknown formats.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{format: FormatHTML, version: "dev"}
	for _, opt := range opts {
		opt(c)
	}

	ext, err := NewExtension(c.format, c.version)
	if err != nil {
		return nil, err
	}
	c.ext = ext

	if c.format == FormatHTML {
		extensions := []goldmark.Extender{extension.GFM, extension.Footnote}
		if c.highlightStyle != "" {
			extensions = append(extensions, highlighting.NewHighlighting(
				highlighting.WithStyle(c.highlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			))
		}
		extensions = append(extensions, ext)
		c.md = goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		)
		return c, nil
	}

	v, _ := LookupVisitor(c.format)
	writer := newFormatWriter(syntaxes[c.format], v, c.standalone)
	c.md = goldmark.New(
		goldmark.WithRenderer(renderer.NewRenderer(
			renderer.WithNodeRenderers(util.Prioritized(writer, priorityFormatWriter)),
		)),
		goldmark.WithExtensions(ext),
	)
	return c, nil
}

// Format returns the converter's output format.
func (c *Converter) Format() Format {
	return c.format
}

// Extension returns the goldmark extension the converter is built on.
func (c *Converter) Extension() *Extension {
	return c.ext
}

var lineOffsetKey = parser.NewContextKey()

// Parse strips front matter and parses source into a Document.
func (c *Converter) Parse(source []byte) (*Document, error) {
	var meta Metadata
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	pc := parser.NewContext()
	if bytes.HasSuffix(source, body) {
		pc.Set(lineOffsetKey, bytes.Count(source[:len(source)-len(body)], []byte("\n")))
	}

	root := c.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	if doc, ok := root.(*ast.Document); ok {
		doc.SetMeta(map[string]interface{}{
			"title":   meta.Title,
			"section": meta.Section,
			"date":    meta.Date,
			"version": c.version,
		})
	}

	return &Document{
		Root:        root,
		Source:      body,
		Meta:        meta,
		Diagnostics: Diagnostics(pc),
		Names:       Names(pc).Names(),
	}, nil
}

// Render renders doc. Rendering detaches every jinja_div payload, so a
// Document must be rendered at most once; parse again for another format.
func (c *Converter) Render(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, doc.Source, doc.Root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}

	if c.format == FormatHTML && c.standalone {
		title := doc.Meta.Title
		if title == "" {
			title = "Document"
		}
		return fmt.Sprintf(htmlTemplate, html.EscapeString(c.version), html.EscapeString(title), buf.String()), nil
	}
	return buf.String(), nil
}

// Convert parses and renders source in one step.
func (c *Converter) Convert(ctx context.Context, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := c.Parse(source)
	if err != nil {
		return nil, err
	}
	out, err := c.Render(doc)
	if err != nil {
		return nil, err
	}

	return &Result{
		Output:      out,
		Meta:        doc.Meta,
		Diagnostics: doc.Diagnostics,
	}, nil
}

// systemMessageHTMLRenderer renders SystemMessage nodes for HTML.
type systemMessageHTMLRenderer struct{}

func (r *systemMessageHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSystemMessage, r.render)
}

func (r *systemMessageHTMLRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	d := node.(*SystemMessage).Diagnostic
	_, _ = fmt.Fprintf(w, "<div class=\"system-message\">\n<p class=\"system-message-title\">System Message: %s (line %d)</p>\n<p>%s</p>\n</div>\n",
		d.Level, d.Line, html.EscapeString(d.Message))
	return ast.WalkSkipChildren, nil
}
