// names.go registers jinja_div identifiers and reports invalid directives.
package md

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// NameRegistry maps explicit identifiers to the line that declared them.
type NameRegistry struct {
	names map[string]int
}

// Register records id at line. It returns the earlier line and false
// when id was already taken.
func (r *NameRegistry) Register(id string, line int) (int, bool) {
	if r.names == nil {
		r.names = make(map[string]int)
	}
	if prev, ok := r.names[id]; ok {
		return prev, false
	}
	r.names[id] = line
	return 0, true
}

// Names returns the registered identifiers and their lines.
func (r *NameRegistry) Names() map[string]int {
	out := make(map[string]int, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

var nameRegistryKey = parser.NewContextKey()

// Names returns the per-document name registry held in pc.
func Names(pc parser.Context) *NameRegistry {
	if v, ok := pc.Get(nameRegistryKey).(*NameRegistry); ok {
		return v
	}
	r := &NameRegistry{}
	pc.Set(nameRegistryKey, r)
	return r
}

// directiveTransformer replaces invalid jinja_div nodes with SystemMessage
// nodes and registers the ids of valid ones.
type directiveTransformer struct{}

// NewDirectiveTransformer returns the AST transformer run after parsing.
func NewDirectiveTransformer() parser.ASTTransformer {
	return &directiveTransformer{}
}

func (t *directiveTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var nodes []*JinjaDiv
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if div, ok := n.(*JinjaDiv); ok && entering {
			nodes = append(nodes, div)
		}
		return ast.WalkContinue, nil
	})

	registry := Names(pc)
	for _, div := range nodes {
		if div.Err != nil {
			d := Diagnostic{
				Level:   LevelError,
				Line:    div.line,
				Message: fmt.Sprintf("%s: %v", DirectiveName, div.Err),
				Err:     div.Err,
			}
			addDiagnostic(pc, d)
			if parent := div.Parent(); parent != nil {
				parent.ReplaceChild(parent, div, NewSystemMessage(d))
			}
			continue
		}
		if div.ID == "" {
			continue
		}
		if prev, ok := registry.Register(div.ID, div.line); !ok {
			addDiagnostic(pc, Diagnostic{
				Level:   LevelWarning,
				Line:    div.line,
				Message: fmt.Sprintf("duplicate identifier %q (first declared on line %d)", div.ID, prev),
			})
			continue
		}
		pc.IDs().Put([]byte(div.ID))
	}
}
