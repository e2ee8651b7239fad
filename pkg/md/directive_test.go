package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectiveRun_Tags(t *testing.T) {
	tests := []struct {
		name    string
		options []DirectiveOption
		content []string
		want    []string
	}{
		{
			name: "no class",
			want: []string{"jinja", ""},
		},
		{
			name:    "class option",
			options: []DirectiveOption{{Key: "class", Value: "card wide"}},
			want:    []string{"jinja", "card wide"},
		},
		{
			name:    "last class wins",
			options: []DirectiveOption{{Key: "class", Value: "a"}, {Key: "class", Value: "b"}},
			want:    []string{"jinja", "b"},
		},
		{
			name:    "body does not affect tags",
			content: []string{"one", "", "two"},
			want:    []string{"jinja", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Directive{Options: tt.options, Content: tt.content}
			node, err := d.Run()
			require.NoError(t, err)
			require.Len(t, node.Tags, 2)
			assert.Equal(t, BaseTag, node.Tags[0])
			assert.Equal(t, tt.want, node.Tags)
		})
	}
}

func TestDirectiveRun_InvalidOption(t *testing.T) {
	d := &Directive{Options: []DirectiveOption{{Key: "foo", Value: "bar"}}}

	node, err := d.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Contains(t, err.Error(), `"foo"`)
	assert.Nil(t, node)
}

func TestDirectiveRun_IDOptionAccepted(t *testing.T) {
	d := &Directive{Options: []DirectiveOption{{Key: "id", Value: "ignored"}}}

	node, err := d.Run()
	require.NoError(t, err)
	assert.Empty(t, node.ID)
}

func TestDirectiveRun_Identifier(t *testing.T) {
	node, err := (&Directive{Arguments: []string{"user-card"}}).Run()
	require.NoError(t, err)
	assert.Equal(t, "user-card", node.ID)

	_, err = (&Directive{Arguments: []string{"a", "b"}}).Run()
	assert.ErrorIs(t, err, ErrTooManyArguments)

	_, err = (&Directive{Arguments: []string{"-bad"}}).Run()
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestDirectiveRun_SourceText(t *testing.T) {
	d := &Directive{Content: []string{"", "  ", "x y", "", "z", ""}}

	node, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, "x y\n\nz", node.SourceText)
}

func TestParseOptionLine(t *testing.T) {
	tests := []struct {
		line   string
		want   DirectiveOption
		wantOK bool
	}{
		{":class: card", DirectiveOption{Key: "class", Value: "card"}, true},
		{"  :ID:   main  ", DirectiveOption{Key: "id", Value: "main"}, true},
		{":class:", DirectiveOption{Key: "class", Value: ""}, true},
		{":::", DirectiveOption{}, false},
		{":no close", DirectiveOption{}, false},
		{": spaced key: x", DirectiveOption{}, false},
		{"plain text", DirectiveOption{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseOptionLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArguments(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one two", []string{"one", "two"}},
		{`a "b c"`, []string{"a", "b c"}},
		{`'x y'  z`, []string{"x y", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitArguments(tt.input))
		})
	}
}
