package lower

import "github.com/yarlson/yarc/binder"

// flatten splices every nested BoundBlockStatement in root's subtree
// into a single top-level block, preserving original relative order.
// The traversal is a stack problem: push the root, repeatedly pop, and
// if the popped node is a block push its children in reverse order so
// they are popped (and appended) in original order; any other node is
// appended directly to the output.
func (l *Lowerer) flatten(root binder.BoundStatement) *binder.BoundBlockStatement {
	var out []binder.BoundStatement

	stack := []binder.BoundStatement{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if block, ok := n.(*binder.BoundBlockStatement); ok {
			for i := len(block.Stmts) - 1; i >= 0; i-- {
				stack = append(stack, block.Stmts[i])
			}

			continue
		}

		out = append(out, n)
	}

	syntax := root.Syntax()

	return &binder.BoundBlockStatement{Stmts: out, SyntaxNode: syntax}
}
