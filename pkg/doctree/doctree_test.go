package doctree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/jinja-div/pkg/md"
)

func parseTree(t *testing.T, input string) *Element {
	t.Helper()
	conv, err := md.NewConverter(md.WithFormat(md.FormatLaTeX))
	require.NoError(t, err)
	doc, err := conv.Parse([]byte(input))
	require.NoError(t, err)
	return FromAST(doc.Root, doc.Source)
}

func TestFromAST_JinjaDiv(t *testing.T) {
	root := parseTree(t, ":::jinja_div card\n:class: user\n\nx *y*\n:::\n")

	assert.Equal(t, "document", root.Tag)
	require.Len(t, root.Children, 1)

	div := root.Children[0]
	assert.Equal(t, "jinja_div", div.Tag)
	assert.Equal(t, map[string]string{"classes": "jinja user", "ids": "card"}, div.Attributes)

	require.Len(t, div.Children, 1)
	para := div.Children[0]
	assert.Equal(t, "paragraph", para.Tag)
	require.Len(t, para.Children, 2)
	assert.Equal(t, &Element{Tag: TextTag, Text: "x "}, para.Children[0])
	assert.Equal(t, "emphasis", para.Children[1].Tag)
	assert.Equal(t, "1", para.Children[1].Attributes["level"])
}

func TestFromAST_MergesText(t *testing.T) {
	root := parseTree(t, "a\nb")

	require.Len(t, root.Children, 1)
	assert.Equal(t, []*Element{{Tag: TextTag, Text: "a\nb"}}, root.Children[0].Children)
}

func TestFromAST_DisplayedText(t *testing.T) {
	root := parseTree(t, `a \* b &amp; c`)

	require.Len(t, root.Children, 1)
	assert.Equal(t, []*Element{{Tag: TextTag, Text: "a * b & c"}}, root.Children[0].Children)
}

func TestFromAST_Blocks(t *testing.T) {
	root := parseTree(t, "## Title\n\n1. one\n\n```go\nx := 1\n```\n\n[site](https://example.com)")

	require.Len(t, root.Children, 4)
	assert.Equal(t, "heading", root.Children[0].Tag)
	assert.Equal(t, "2", root.Children[0].Attributes["level"])

	list := root.Children[1]
	assert.Equal(t, "list", list.Tag)
	assert.Equal(t, "arabic", list.Attributes["enumtype"])
	assert.Equal(t, "1", list.Attributes["start"])
	assert.Equal(t, "list_item", list.Children[0].Tag)

	code := root.Children[2]
	assert.Equal(t, "fenced_code_block", code.Tag)
	assert.Equal(t, "go", code.Attributes["language"])
	assert.Equal(t, "x := 1\n", code.Text)

	link := root.Children[3].Children[0]
	assert.Equal(t, "link", link.Tag)
	assert.Equal(t, "https://example.com", link.Attributes["refuri"])
}

func TestFromAST_SystemMessage(t *testing.T) {
	root := parseTree(t, ":::jinja_div\n:bad: x\n:::\n")

	require.Len(t, root.Children, 1)
	msg := root.Children[0]
	assert.Equal(t, "system_message", msg.Tag)
	assert.Equal(t, "ERROR", msg.Attributes["level"])
	assert.Equal(t, "1", msg.Attributes["line"])
	assert.Contains(t, msg.Text, "invalid option")
}

func TestTagName(t *testing.T) {
	tests := map[string]string{
		"Document":        "document",
		"FencedCodeBlock": "fenced_code_block",
		"JinjaDiv":        "jinja_div",
		"Text":            "text",
	}
	for in, want := range tests {
		assert.Equal(t, want, tagName(in), in)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.doctree")
	root := parseTree(t, ":::jinja_div a\nexpr\n:::\n\ntext")

	require.NoError(t, Save(path, root))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, root, loaded)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.doctree"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.doctree")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode doctree")

	empty := filepath.Join(dir, "empty.doctree")
	require.NoError(t, os.WriteFile(empty, []byte("null"), 0644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name    string
		wantIn  string
		wantOut string
	}{
		{"doc", "doc.doctree", "doc.xml"},
		{"doc.doctree", "doc.doctree", "doc.xml"},
		{"build/doc.pickle", "build/doc.pickle", "build/doc.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := Paths(tt.name)
			assert.Equal(t, tt.wantIn, in)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestWriteXML(t *testing.T) {
	root := &Element{
		Tag: "document",
		Children: []*Element{
			{Tag: "paragraph", Children: []*Element{{Tag: TextTag, Text: "hi & bye"}}},
			{Tag: "jinja_div", Attributes: map[string]string{"ids": "a", "classes": "jinja"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, root.WriteXML(&buf))

	expected := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<document>\n" +
		"\t<paragraph>hi &amp; bye</paragraph>\n" +
		"\t<jinja_div classes=\"jinja\" ids=\"a\"></jinja_div>\n" +
		"</document>\n"
	assert.Equal(t, expected, buf.String())
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.doctree")
	out := filepath.Join(dir, "doc.xml")

	require.NoError(t, Save(in, parseTree(t, ":::jinja_div a\n:class: c\n\nexpr\n:::\n")))
	require.NoError(t, ConvertFile(in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<jinja_div classes="jinja c" ids="a">`)
	assert.Contains(t, string(data), "<paragraph>expr</paragraph>")
}

func TestConvertFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := ConvertFile(filepath.Join(dir, "none.doctree"), filepath.Join(dir, "none.xml"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "none.xml"))
	assert.True(t, os.IsNotExist(statErr))
}
