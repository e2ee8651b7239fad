// Package doctree persists parsed documents as a generic element tree and
// renders that tree as indented XML.
package doctree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"

	"github.com/open-cli-collective/jinja-div/pkg/md"
)

// File suffixes used by the conversion utility.
const (
	Ext    = ".doctree"
	XMLExt = ".xml"
)

// TextTag is the tag of text leaves.
const TextTag = "#text"

// ErrEmptyTree indicates a doctree file without a root element.
var ErrEmptyTree = errors.New("doctree has no root element")

// Element is one node of a persisted document tree.
type Element struct {
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Text       string            `json:"text,omitempty"`
	Children   []*Element        `json:"children,omitempty"`
}

// FromAST converts a goldmark tree into an Element tree. Adjacent text
// leaves are merged.
func FromAST(n ast.Node, source []byte) *Element {
	if t, ok := n.(*ast.Text); ok {
		s := string(md.DisplayText(t, source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			s += "\n"
		}
		return &Element{Tag: TextTag, Text: s}
	}
	if s, ok := n.(*ast.String); ok {
		return &Element{Tag: TextTag, Text: string(s.Value)}
	}

	el := &Element{Tag: tagName(n.Kind().String())}
	setAttributes(el, n, source)

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		child := FromAST(c, source)
		if last := len(el.Children) - 1; last >= 0 && child.Tag == TextTag && el.Children[last].Tag == TextTag {
			el.Children[last].Text += child.Text
			continue
		}
		el.Children = append(el.Children, child)
	}
	return el
}

func setAttributes(el *Element, n ast.Node, source []byte) {
	set := func(k, v string) {
		if el.Attributes == nil {
			el.Attributes = make(map[string]string)
		}
		el.Attributes[k] = v
	}

	for _, attr := range n.Attributes() {
		if v, ok := attr.Value.([]byte); ok {
			set(string(attr.Name), string(v))
		}
	}

	switch node := n.(type) {
	case *md.JinjaDiv:
		set("classes", node.Class())
		if node.ID != "" {
			set("ids", node.ID)
		}
	case *md.SystemMessage:
		set("level", string(node.Diagnostic.Level))
		set("line", strconv.Itoa(node.Diagnostic.Line))
		el.Text = node.Diagnostic.Message
	case *ast.Heading:
		set("level", strconv.Itoa(node.Level))
	case *ast.Emphasis:
		set("level", strconv.Itoa(node.Level))
	case *ast.List:
		if node.IsOrdered() {
			set("enumtype", "arabic")
			set("start", strconv.Itoa(node.Start))
		} else {
			set("bullet", string(node.Marker))
		}
	case *ast.Link:
		set("refuri", string(node.Destination))
		if len(node.Title) > 0 {
			set("title", string(node.Title))
		}
	case *ast.AutoLink:
		set("refuri", string(node.URL(source)))
	case *ast.Image:
		set("uri", string(node.Destination))
	case *ast.FencedCodeBlock:
		if lang := node.Language(source); lang != nil {
			set("language", string(lang))
		}
		el.Text = string(node.Lines().Value(source))
	case *ast.CodeBlock:
		el.Text = string(node.Lines().Value(source))
	case *ast.HTMLBlock:
		el.Text = string(node.Lines().Value(source))
	case *ast.RawHTML:
		el.Text = string(node.Segments.Value(source))
	}
}

// tagName turns a node kind such as "FencedCodeBlock" into "fenced_code_block".
func tagName(kind string) string {
	var sb strings.Builder
	for i, r := range kind {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Save writes root to path as JSON.
func Save(path string, root *Element) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode doctree: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write doctree: %w", err)
	}
	return nil
}

// Load reads a doctree written by Save.
func Load(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read doctree: %w", err)
	}
	var root *Element
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode doctree %s: %w", path, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTree)
	}
	return root, nil
}

// Paths derives the input and output file names for name. A name without
// an extension gets Ext; the output keeps the stem and uses XMLExt.
func Paths(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = Ext
	}
	return stem + ext, stem + XMLExt
}

// ConvertFile loads the doctree at in and writes its XML rendering to out.
func ConvertFile(in, out string) error {
	root, err := Load(in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := root.WriteXML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
