// diagnostic.go defines parse-time diagnostics and the node that replaces invalid directives.
package md

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Diagnostic is an author-facing message tied to a source line.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Level, d.Message)
}

var diagnosticsKey = parser.NewContextKey()

// Diagnostics returns the diagnostics collected in pc so far.
func Diagnostics(pc parser.Context) []Diagnostic {
	if v, ok := pc.Get(diagnosticsKey).(*[]Diagnostic); ok {
		return *v
	}
	return nil
}

func addDiagnostic(pc parser.Context, d Diagnostic) {
	v, ok := pc.Get(diagnosticsKey).(*[]Diagnostic)
	if !ok {
		v = &[]Diagnostic{}
		pc.Set(diagnosticsKey, v)
	}
	*v = append(*v, d)
}

// KindSystemMessage is the goldmark node kind of SystemMessage.
var KindSystemMessage = ast.NewNodeKind("SystemMessage")

// SystemMessage stands in for a directive that failed to build.
type SystemMessage struct {
	ast.BaseBlock
	Diagnostic Diagnostic
}

// NewSystemMessage returns a node reporting d.
func NewSystemMessage(d Diagnostic) *SystemMessage {
	return &SystemMessage{Diagnostic: d}
}

// Kind implements ast.Node.
func (n *SystemMessage) Kind() ast.NodeKind {
	return KindSystemMessage
}

// Dump implements ast.Node.
func (n *SystemMessage) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Level":   string(n.Diagnostic.Level),
		"Line":    fmt.Sprintf("%d", n.Diagnostic.Line),
		"Message": n.Diagnostic.Message,
	}, nil)
}
