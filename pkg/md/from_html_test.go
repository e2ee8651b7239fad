package md

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "paragraph",
			input:    "<p>Hello <strong>World</strong></p>",
			expected: "Hello **World**",
		},
		{
			name:     "bare container",
			input:    `<div class="jinja">{{ name }}` + "\n</div>",
			expected: ":::jinja_div\n\nname\n:::",
		},
		{
			name:     "container with id and class",
			input:    `<div class="jinja card" id="c1">{{ user.name }}` + "\n</div>",
			expected: ":::jinja_div c1\n:class: card\n\nuser.name\n:::",
		},
		{
			name:     "unescapes attributes",
			input:    `<div class="jinja a &amp; b">{{ x }}</div>`,
			expected: ":::jinja_div\n:class: a & b\n\nx\n:::",
		},
		{
			name:     "expression kept verbatim",
			input:    `<div class="jinja">{{ a &amp; b }}</div>`,
			expected: ":::jinja_div\n\na &amp; b\n:::",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFromHTML_KeepsSurroundingContent(t *testing.T) {
	input := "<h2>Profile</h2>\n" +
		`<div class="jinja">{{ user.name }}` + "\n<p>Shown below the name</p>\n</div>\n" +
		"<p>Footer</p>"

	result, err := FromHTML(input)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result, "## Profile"))
	assert.Contains(t, result, ":::jinja_div\n\nuser.name\n\nShown below the name\n:::")
	assert.True(t, strings.HasSuffix(result, "Footer"))
}

func TestFromHTML_RoundTrip(t *testing.T) {
	source := ":::jinja_div card\n:class: user\n\nuser.name\n\nHello there\n:::\n"

	conv, err := NewConverter()
	require.NoError(t, err)
	res, err := conv.Convert(context.Background(), []byte(source))
	require.NoError(t, err)

	markdown, err := FromHTML(res.Output)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(source), markdown)

	doc := parse(t, markdown)
	divs := jinjaDivs(doc.Root)
	require.Len(t, divs, 1)
	assert.Equal(t, "card", divs[0].ID)
	assert.Equal(t, []string{"jinja", "user"}, divs[0].Tags)
	assert.Equal(t, "user.name", nodeText(divs[0].FirstChild(), doc.Source))
}
