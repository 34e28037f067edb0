package lower

import (
	"strings"
	"testing"

	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/eval"
	"github.com/yarlson/yarc/lexer"
	"github.com/yarlson/yarc/parser"
)

// bindSource parses and binds src and returns the whole program as one
// bound block (so callers can lower the whole program in one call,
// matching Lower's single-statement contract).
func bindSource(t *testing.T, src string) *binder.BoundBlockStatement {
	t.Helper()

	l := lexer.New(src)
	p := parser.New(l)

	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	bound, err := binder.Bind(prog)
	if err != nil {
		t.Fatalf("bind error: %v", err)
	}

	return bound
}

// runLowered lowers src and executes it with the reference evaluator,
// returning the final variable bindings.
func runLowered(t *testing.T, src string) map[string]any {
	t.Helper()

	bound := bindSource(t, src)
	lowered := Lower(bound)

	values, err := eval.New().Run(lowered)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	return values
}

// collectKinds walks block's direct children (already flat, per the
// flattening-completeness invariant) and returns the set of BoundKinds
// present.
func collectKinds(block *binder.BoundBlockStatement) map[binder.Kind]int {
	counts := make(map[binder.Kind]int)

	for _, s := range block.Stmts {
		counts[s.BoundKind()]++
	}

	return counts
}

func assertNoHighLevelControlFlow(t *testing.T, block *binder.BoundBlockStatement) {
	t.Helper()

	for _, s := range block.Stmts {
		switch s.(type) {
		case *binder.BoundIfStatement, *binder.BoundWhileStatement,
			*binder.BoundDoWhileStatement, *binder.BoundForStatement:
			t.Fatalf("lowered block contains high-level control-flow node %T", s)
		case *binder.BoundBlockStatement:
			t.Fatalf("lowered block contains a nested Block (flattening incomplete)")
		}
	}
}

func assertLabelsUniqueAndResolved(t *testing.T, block *binder.BoundBlockStatement) {
	t.Helper()

	seen := make(map[binder.Label]bool)
	defined := make(map[binder.Label]bool)

	for _, s := range block.Stmts {
		if l, ok := s.(*binder.BoundLabelStatement); ok {
			if seen[l.Label] {
				t.Fatalf("label %s emitted more than once", l.Label.Name)
			}

			seen[l.Label] = true
			defined[l.Label] = true
		}
	}

	for _, s := range block.Stmts {
		switch g := s.(type) {
		case *binder.BoundGotoStatement:
			if !defined[g.Target] {
				t.Fatalf("goto targets undefined label %s", g.Target.Name)
			}
		case *binder.BoundConditionalGotoStatement:
			if !defined[g.Target] {
				t.Fatalf("conditional goto targets undefined label %s", g.Target.Name)
			}
		}
	}
}

// --- Universal invariants (§8) ---

func TestInvariantNoControlFlowNodes(t *testing.T) {
	bound := bindSource(t, `
var sum = 0
for i = 1 to 5 {
	if i > 3 {
		sum = sum + i
	} else {
		sum = sum - i
	}
}
`)

	lowered := Lower(bound)

	assertNoHighLevelControlFlow(t, lowered)
}

func TestInvariantLabelsUniqueAndTargetsResolved(t *testing.T) {
	bound := bindSource(t, `
var x = 0
while x < 10 {
	x = x + 1
}
do {
	x = x - 1
} while x > 0
`)

	lowered := Lower(bound)

	assertLabelsUniqueAndResolved(t, lowered)
}

func TestInvariantFlatteningCompleteness(t *testing.T) {
	bound := bindSource(t, `
if true {
	if false {
		var x = 1
	}
}
`)

	lowered := Lower(bound)

	for _, s := range lowered.Stmts {
		if _, ok := s.(*binder.BoundBlockStatement); ok {
			t.Fatal("top-level block has a nested Block child")
		}
	}
}

func TestInvariantIdempotentModuloLabelNaming(t *testing.T) {
	bound := bindSource(t, `
var x = 0
for i = 1 to 3 {
	x = x + i
}
`)

	first := Lower(bound)
	second := Lower(first)

	if len(first.Stmts) != len(second.Stmts) {
		t.Fatalf("re-lowering changed statement count: %d vs %d", len(first.Stmts), len(second.Stmts))
	}

	firstKinds := collectKinds(first)
	secondKinds := collectKinds(second)

	for k, n := range firstKinds {
		if secondKinds[k] != n {
			t.Errorf("kind %s: first=%d second=%d", k, n, secondKinds[k])
		}
	}

	assertNoHighLevelControlFlow(t, second)
	assertLabelsUniqueAndResolved(t, second)
}

// --- Boundary scenarios (§8) ---

func TestS1IfElse(t *testing.T) {
	values := runLowered(t, `
var x = 0
if true {
	x = 1
} else {
	x = 2
}
`)

	if values["x"] != int64(1) {
		t.Errorf("x = %v, want 1", values["x"])
	}
}

func TestS2WhileFalseNeverRuns(t *testing.T) {
	values := runLowered(t, `
var x = 7
while false {
	x = x + 1
}
`)

	if values["x"] != int64(7) {
		t.Errorf("x = %v, want 7", values["x"])
	}
}

func TestS3DoWhileRunsOnce(t *testing.T) {
	values := runLowered(t, `
var x = 0
do {
	x = x + 1
} while false
`)

	if values["x"] != int64(1) {
		t.Errorf("x = %v, want 1", values["x"])
	}
}

func TestS4ForSum(t *testing.T) {
	values := runLowered(t, `
var sum = 0
for i = 1 to 5 {
	sum = sum + i
}
`)

	if values["sum"] != int64(15) {
		t.Errorf("sum = %v, want 15", values["sum"])
	}
}

func TestS5ForNegativeStep(t *testing.T) {
	values := runLowered(t, `
var count = 0
for i = 10 to 1 step -1 {
	count = count + 1
}
`)

	if values["count"] != int64(10) {
		t.Errorf("count = %v, want 10", values["count"])
	}
}

func TestS6ForZeroStepNeverIterates(t *testing.T) {
	values := runLowered(t, `
var count = 0
for i = 1 to 10 step 0 {
	count = count + 1
}
`)

	if values["count"] != int64(0) {
		t.Errorf("count = %v, want 0", values["count"])
	}
}

// --- Structural assertions (§8) ---

func TestS4StructuralAssertions(t *testing.T) {
	bound := bindSource(t, `
var sum = 0
for i = 1 to 5 {
	sum = sum + i
}
`)

	lowered := Lower(bound)

	declCount := 0
	sawI, sawUpperBound := false, false

	for _, s := range lowered.Stmts {
		d, ok := s.(*binder.BoundVariableDeclaration)
		if !ok {
			continue
		}

		switch {
		case d.Symbol.Name == "i":
			declCount++
			sawI = true
		case strings.HasPrefix(d.Symbol.Name, "upperBound"):
			declCount++
			sawUpperBound = true
		}
	}

	if declCount != 2 || !sawI || !sawUpperBound {
		t.Errorf("expected declarations of exactly i and a uniquified upperBound, got %d decls (i=%v, upperBound=%v)", declCount, sawI, sawUpperBound)
	}

	kinds := collectKinds(lowered)
	if kinds[binder.KindGoto] != 1 {
		t.Errorf("expected exactly one Goto, got %d", kinds[binder.KindGoto])
	}

	if kinds[binder.KindConditionalGoto] != 1 {
		t.Errorf("expected exactly one ConditionalGoto, got %d", kinds[binder.KindConditionalGoto])
	}
}

func TestS5S6StructuralAssertions(t *testing.T) {
	for _, src := range []string{
		"var count = 0\nfor i = 10 to 1 step -1 {\n\tcount = count + 1\n}\n",
		"var count = 0\nfor i = 1 to 10 step 0 {\n\tcount = count + 1\n}\n",
	} {
		bound := bindSource(t, src)
		lowered := Lower(bound)

		declared := map[string]bool{}

		for _, s := range lowered.Stmts {
			if d, ok := s.(*binder.BoundVariableDeclaration); ok {
				declared[d.Symbol.Name] = true
			}
		}

		sawI, sawUpperBound, sawStepper := false, false, false
		synthetic := 0

		for name := range declared {
			switch {
			case name == "i":
				sawI = true
				synthetic++
			case strings.HasPrefix(name, "upperBound"):
				sawUpperBound = true
				synthetic++
			case strings.HasPrefix(name, "stepper"):
				sawStepper = true
				synthetic++
			}
		}

		if !sawI || !sawUpperBound || !sawStepper {
			t.Errorf("input %q: expected i, a uniquified upperBound, and a uniquified stepper to be declared, got %v", src, declared)
		}

		if synthetic != 3 {
			t.Errorf("input %q: expected exactly 3 synthetic variables, got %d: %v", src, synthetic, declared)
		}
	}
}

func TestNestedIfInsideWhileFlattensCorrectly(t *testing.T) {
	values := runLowered(t, `
var x = 0
var hits = 0
while x < 5 {
	if x == 2 {
		hits = hits + 1
	}
	x = x + 1
}
`)

	if values["hits"] != int64(1) {
		t.Errorf("hits = %v, want 1", values["hits"])
	}

	if values["x"] != int64(5) {
		t.Errorf("x = %v, want 5", values["x"])
	}
}

func TestNestedForLoopsDoNotAliasSyntheticBounds(t *testing.T) {
	values := runLowered(t, `
var total = 0
for i = 1 to 3 {
	for j = 1 to 5 {
		total = total + 1
	}
}
`)

	if values["total"] != int64(15) {
		t.Errorf("total = %v, want 15 (outer loop's upperBound must not be overwritten by the inner loop's)", values["total"])
	}
}

func TestNestedForWithStepLoopsDoNotAliasSyntheticBounds(t *testing.T) {
	values := runLowered(t, `
var total = 0
for i = 1 to 3 step 1 {
	for j = 5 to 1 step -1 {
		total = total + 1
	}
}
`)

	if values["total"] != int64(15) {
		t.Errorf("total = %v, want 15 (outer loop's stepper/upperBound must not be overwritten by the inner loop's)", values["total"])
	}
}

func TestElseIfChainLowering(t *testing.T) {
	values := runLowered(t, `
var x = 2
var y = 0
if x == 1 {
	y = 10
} else if x == 2 {
	y = 20
} else {
	y = 30
}
`)

	if values["y"] != int64(20) {
		t.Errorf("y = %v, want 20", values["y"])
	}
}
