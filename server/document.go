package server

import (
	"go.uber.org/multierr"

	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/lexer"
	"github.com/yarlson/yarc/lower"
	"github.com/yarlson/yarc/parser"
)

// Severity mirrors the LSP DiagnosticSeverity scale without importing the
// protocol package here, keeping Document testable without an LSP
// dependency.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// Diagnostic is a position-carrying problem report surfaced to the
// client, sourced from either parse errors or binder.Diagnostic values.
type Diagnostic struct {
	Severity Severity
	Message  string
	Pos      ast.Position
}

// Document represents an open text document tracked by the language
// server: its raw content plus the result of the most recent
// parse/bind pass over that content.
type Document struct {
	URI     string
	Version int
	Content string

	Program     *ast.Block
	Bound       *binder.BoundBlockStatement
	Diagnostics []Diagnostic
}

// Analyze re-parses and re-binds the document's current content, storing
// the resulting diagnostics. It never lowers: lowering is only run on
// demand, by the yarc/lowerIR command, since a document with binder
// errors has no well-typed tree to lower.
func (d *Document) Analyze() {
	d.Diagnostics = nil

	l := lexer.New(d.Content)
	p := parser.New(l)

	d.Program = p.ParseProgram()

	for _, msg := range p.Errors() {
		d.Diagnostics = append(d.Diagnostics, Diagnostic{Severity: SeverityError, Message: msg})
	}

	if len(p.Errors()) > 0 {
		d.Bound = nil
		return
	}

	bound, err := binder.Bind(d.Program)
	d.Bound = bound

	for _, e := range multierr.Errors(err) {
		if diag, ok := e.(binder.Diagnostic); ok {
			d.Diagnostics = append(d.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Message:  diag.Message,
				Pos:      diag.Pos,
			})

			continue
		}

		d.Diagnostics = append(d.Diagnostics, Diagnostic{Severity: SeverityError, Message: e.Error()})
	}
}

// LowerIR lowers the document's last successfully bound tree and
// returns it. It returns nil if the document has outstanding binder
// diagnostics, since lowering an ill-typed tree is a precondition
// violation rather than something the server should attempt.
//
// lower.Lower panics on its own precondition violations (a bound tree
// the binder should never have produced); this is the one boundary in
// the server where such a panic is recovered rather than left to crash
// the process, matching a long-running server's obligation to survive
// a single bad request.
func (d *Document) LowerIR() (block *binder.BoundBlockStatement) {
	if d.Bound == nil || len(d.Diagnostics) > 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			block = nil
		}
	}()

	return lower.Lower(d.Bound)
}

// Update replaces the document's content and re-analyzes it.
func (d *Document) Update(content string, version int) {
	d.Content = content
	d.Version = version
	d.Analyze()
}
