package bytecode

import "github.com/trynova/nova-sub003/internal/ast"

// compileForInOf lowers for-in/for-of into GetIteratorSync/IteratorStepValue/
// IteratorPop around an ordinary loop body. Each iteration binds in its own
// declarative environment; when the iterator is exhausted, IteratorStepValue
// jumps from the loop top, where the previous iteration's environment has
// already been exited, to an IteratorPop that drops the iterator. The live
// iterator Value stays on the value stack for the whole loop and is
// duplicated for each step, so no side table is needed to find it.
//
// for-await-of needs internal/async's suspension machinery (the iterator
// step can itself be an Awaited promise) which does not exist yet; compiling
// one here is deferred rather than silently miscompiled.
func (c *Compiler) compileForInOf(n *ast.ForInOfStatement) {
	if n.Kind == ast.ForAwaitOf {
		panic("bytecode: for-await-of is not yet supported")
	}

	c.compileExpression(n.Right)
	if n.Kind == ast.ForOf {
		c.b.Emit0(OpGetIteratorSync)
	} else {
		c.b.Emit0(OpGetIteratorSync) // for-in iterates enumerable keys via the same opcode; internal/vm dispatches on the source value's tag
	}

	c.breakTargets = append(c.breakTargets, nil)
	c.continueTargets = append(c.continueTargets, nil)

	loopStart := c.b.Pos()
	c.b.Emit0(OpDup)
	exitSlot := c.b.EmitJump(OpIteratorStepValue)

	c.b.Emit0(OpEnterDeclarativeEnvironment)
	c.bindForTarget(n.Left)
	c.compileStatement(n.Body)
	c.b.Emit0(OpExitDeclarativeEnvironment)

	continuePos := c.b.Pos()
	backSlot := c.b.EmitJump(OpJump)
	c.b.Patch(backSlot, loopStart)

	endPos := c.b.Pos()
	c.b.Patch(exitSlot, endPos)
	c.b.Emit0(OpIteratorPop) // drop the now-exhausted-or-abandoned iterator

	top := len(c.breakTargets) - 1
	for _, slot := range c.breakTargets[top] {
		c.b.Patch(slot, endPos)
	}
	for _, slot := range c.continueTargets[top] {
		c.b.Patch(slot, continuePos)
	}
	c.breakTargets = c.breakTargets[:top]
	c.continueTargets = c.continueTargets[:top]
}

// bindForTarget initializes the loop variable from the value
// IteratorStepValue just pushed, handling both `for (const x of xs)` (a
// VariableDeclaration with exactly one declarator) and `for (x of xs)` (a
// bare assignment target expression).
func (c *Compiler) bindForTarget(left ast.Node) {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		d := l.Declarations[0]
		id, ok := d.ID.(*ast.Identifier)
		if !ok {
			panic("bytecode: destructuring for-in/for-of targets are not yet supported")
		}
		nameIdx := c.b.IdentifierIndex(id.Name)
		if l.Kind == ast.VarConst {
			c.b.EmitIndex(OpCreateImmutableBinding, nameIdx)
		} else {
			c.b.EmitIndex(OpCreateMutableBinding, nameIdx)
		}
		c.b.EmitIndex(OpResolveBinding, nameIdx)
		c.b.Emit0(OpInitializeReferencedBinding)
	case *ast.Identifier:
		nameIdx := c.b.IdentifierIndex(l.Name)
		c.b.EmitIndex(OpResolveBinding, nameIdx)
		c.b.Emit0(OpPutValue)
	default:
		panic("bytecode: unsupported for-in/for-of binding target")
	}
}
