package dt2xml

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/jinja-div/pkg/doctree"
)

func writeTree(t *testing.T) (stem string) {
	t.Helper()
	stem = filepath.Join(t.TempDir(), "guide")
	tree := &doctree.Element{
		Tag: "document",
		Children: []*doctree.Element{
			{Tag: "jinja_div", Attributes: map[string]string{"classes": "jinja", "ids": "x"}},
		},
	}
	require.NoError(t, doctree.Save(stem+doctree.Ext, tree))
	return stem
}

func TestRunDT2XML(t *testing.T) {
	tests := []struct {
		name string
		arg  func(stem string) string
	}{
		{"bare name", func(stem string) string { return stem }},
		{"with extension", func(stem string) string { return stem + doctree.Ext }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem := writeTree(t)

			var buf bytes.Buffer
			require.NoError(t, runDT2XML(tt.arg(stem), &buf))

			assert.Equal(t, "Reading "+stem+".doctree, writing "+stem+".xml\n", buf.String())
			data, err := os.ReadFile(stem + doctree.XMLExt)
			require.NoError(t, err)
			assert.Contains(t, string(data), `<jinja_div classes="jinja" ids="x"></jinja_div>`)
		})
	}
}

func TestRunDT2XML_MissingInput(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "none")

	var buf bytes.Buffer
	err := runDT2XML(stem, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewCmdDT2XML_Args(t *testing.T) {
	cmd := NewCmdDT2XML()
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.NoError(t, cmd.Args(cmd, []string{"doc"}))
}
