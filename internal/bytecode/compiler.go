package bytecode

import (
	"fmt"

	"github.com/trynova/nova-sub003/internal/ast"
	"github.com/trynova/nova-sub003/internal/ops"
	"github.com/trynova/nova-sub003/internal/value"
)

// Compiler walks an AST and emits bytecode into a Builder, per spec.md
// §4.4: "Compilation emits a linear byte stream of Instruction codes."
// One Compiler instance compiles exactly one function/script/module body;
// nested function expressions recurse into a fresh Compiler over a fresh
// Builder, per the teacher's own per-module compilation unit pattern.
type Compiler struct {
	b *Builder

	// breakTargets/continueTargets record the jump-patch list for the
	// innermost enclosing loop, per spec.md §4.4's "jump-target stack."
	breakTargets    [][]int
	continueTargets [][]int

	// chainExits accumulates the short-circuit jump slots of an
	// in-progress optional-chain compilation (see compileChainRoot); nil
	// outside of one.
	chainExits []int
}

// NewCompiler starts compiling source into a fresh Executable.
func NewCompiler(source string) *Compiler {
	return &Compiler{b: NewBuilder(source)}
}

// CompileProgram compiles an entire Program (script or module top level)
// and returns the finished Executable.
func (c *Compiler) CompileProgram(p *ast.Program) *Executable {
	for _, s := range p.Body {
		c.compileStatement(s)
	}
	return c.b.Finish()
}

// CompileFunctionBody compiles a function's parameter-bound body,
// returning the finished Executable. internal/vm binds the parameters
// (and `arguments`, where needed) immediately before this Executable
// begins executing; the compiler only emits the statements of the body
// itself.
func (c *Compiler) CompileFunctionBody(body *ast.BlockStatement) *Executable {
	for _, s := range body.Body {
		c.compileStatement(s)
	}
	c.b.Emit0(OpLoadUndefined)
	c.b.Emit0(OpReturn)
	return c.b.Finish()
}

func (c *Compiler) compileStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.compileExpression(n.Expression)
		c.b.Emit0(OpPop)

	case *ast.VariableDeclaration:
		c.compileVariableDeclaration(n)

	case *ast.BlockStatement:
		c.b.Emit0(OpEnterDeclarativeEnvironment)
		for _, st := range n.Body {
			c.compileStatement(st)
		}
		c.b.Emit0(OpExitDeclarativeEnvironment)

	case *ast.ReturnStatement:
		if n.Argument != nil {
			c.compileExpression(n.Argument)
		} else {
			c.b.Emit0(OpLoadUndefined)
		}
		c.b.Emit0(OpReturn)

	case *ast.IfStatement:
		c.compileExpression(n.Test)
		elseSlot := c.b.EmitJump(OpJumpIfNot)
		c.compileStatement(n.Consequent)
		if n.Alternate != nil {
			endSlot := c.b.EmitJump(OpJump)
			c.b.Patch(elseSlot, c.b.Pos())
			c.compileStatement(n.Alternate)
			c.b.Patch(endSlot, c.b.Pos())
		} else {
			c.b.Patch(elseSlot, c.b.Pos())
		}

	case *ast.ForStatement:
		c.compileForStatement(n)

	case *ast.ForInOfStatement:
		c.compileForInOf(n)

	case *ast.BreakStatement:
		if len(c.breakTargets) == 0 {
			panic("bytecode: break outside of a loop")
		}
		top := len(c.breakTargets) - 1
		slot := c.b.EmitJump(OpJump)
		c.breakTargets[top] = append(c.breakTargets[top], slot)

	case *ast.ContinueStatement:
		if len(c.continueTargets) == 0 {
			panic("bytecode: continue outside of a loop")
		}
		top := len(c.continueTargets) - 1
		slot := c.b.EmitJump(OpJump)
		c.continueTargets[top] = append(c.continueTargets[top], slot)

	case *ast.FunctionDeclaration:
		// A function declaration binds its name in the current environment
		// when control reaches it. It is not hoisted: code that runs before
		// the declaration does not see the binding.
		nameIdx := c.b.IdentifierIndex(n.ID.Name)
		c.b.EmitIndex(OpCreateMutableBinding, nameIdx)
		c.b.EmitIndex(OpInstantiateFunctionExpression, c.compileNestedFunction(n.FunctionCommon))
		c.b.EmitIndex(OpResolveBinding, nameIdx)
		c.b.Emit0(OpInitializeReferencedBinding)

	case *ast.ThrowStatement:
		c.compileExpression(n.Argument)
		c.b.Emit0(OpThrow)

	case *ast.LabeledStatement:
		c.compileStatement(n.Body)

	default:
		panic(fmt.Sprintf("bytecode: unsupported statement %T", s))
	}
}

func (c *Compiler) compileForStatement(n *ast.ForStatement) {
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			c.compileVariableDeclaration(init)
		case ast.Expression:
			c.compileExpression(init)
			c.b.Emit0(OpPop)
		}
	}
	c.breakTargets = append(c.breakTargets, nil)
	c.continueTargets = append(c.continueTargets, nil)

	loopStart := c.b.Pos()
	var exitSlot int
	hasTest := n.Test != nil
	if hasTest {
		c.compileExpression(n.Test)
		exitSlot = c.b.EmitJump(OpJumpIfNot)
	}
	c.compileStatement(n.Body)

	continuePos := c.b.Pos()
	if n.Update != nil {
		c.compileExpression(n.Update)
		c.b.Emit0(OpPop)
	}
	backSlot := c.b.EmitJump(OpJump)
	c.b.Patch(backSlot, loopStart)

	endPos := c.b.Pos()
	if hasTest {
		c.b.Patch(exitSlot, endPos)
	}

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

func (c *Compiler) compileVariableDeclaration(n *ast.VariableDeclaration) {
	for _, d := range n.Declarations {
		id, ok := d.ID.(*ast.Identifier)
		if !ok {
			panic("bytecode: destructuring binding patterns are not yet supported")
		}
		nameIdx := c.b.IdentifierIndex(id.Name)
		if n.Kind == ast.VarVar {
			// `var` bindings are created up front by
			// FunctionDeclarationInstantiation/GlobalDeclarationInstantiation;
			// here we only assign an initializer, if any.
			if d.Init != nil {
				c.compileExpression(d.Init)
				c.b.EmitIndex(OpResolveBinding, nameIdx)
				c.b.Emit0(OpPutValue) // pops the pushed value, writes it through the reference
			}
			continue
		}
		if n.Kind == ast.VarConst {
			c.b.EmitIndex(OpCreateImmutableBinding, nameIdx)
		} else {
			c.b.EmitIndex(OpCreateMutableBinding, nameIdx)
		}
		if d.Init != nil {
			c.compileExpression(d.Init)
		} else {
			c.b.Emit0(OpLoadUndefined)
		}
		c.b.EmitIndex(OpResolveBinding, nameIdx)
		c.b.Emit0(OpInitializeReferencedBinding) // pops the pushed value, initializes the binding
	}
}

func (c *Compiler) compileExpression(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Literal:
		c.compileLiteral(n)

	case *ast.Identifier:
		c.b.EmitIndex(OpResolveBinding, c.b.IdentifierIndex(n.Name))
		c.b.Emit0(OpGetValue) // leaves the dereferenced value on top of the value stack

	case *ast.ThisExpression:
		c.b.EmitIndex(OpResolveBinding, c.b.IdentifierIndex("this"))
		c.b.Emit0(OpGetValue)

	case *ast.BinaryExpression:
		c.compileExpression(n.Left)
		c.compileExpression(n.Right)
		c.emitBinaryOp(n.Operator)

	case *ast.LogicalExpression:
		c.compileLogical(n)

	case *ast.UnaryExpression:
		c.compileExpression(n.Argument)
		c.emitUnaryOp(n.Operator)

	case *ast.AssignmentExpression:
		c.compileAssignment(n)

	case *ast.ConditionalExpression:
		c.compileExpression(n.Test)
		elseSlot := c.b.EmitJump(OpJumpIfNot)
		c.compileExpression(n.Consequent)
		endSlot := c.b.EmitJump(OpJump)
		c.b.Patch(elseSlot, c.b.Pos())
		c.compileExpression(n.Alternate)
		c.b.Patch(endSlot, c.b.Pos())

	case *ast.SequenceExpression:
		for i, sub := range n.Expressions {
			c.compileExpression(sub)
			if i != len(n.Expressions)-1 {
				c.b.Emit0(OpPop)
			}
		}

	case *ast.CallExpression:
		c.compileChainRoot(n)

	case *ast.NewExpression:
		c.compileExpression(n.Callee)
		for _, a := range n.Arguments {
			c.compileExpression(a)
		}
		c.b.EmitIndex(OpNew, uint32(len(n.Arguments)))

	case *ast.MemberExpression:
		c.compileChainRoot(n)

	case *ast.ArrayExpression:
		c.b.Emit0(OpNewArray)
		for _, el := range n.Elements {
			if el == nil {
				// Elision: advance the length without a value. Compiled as
				// an Undefined append; a true sparse hole needs its own
				// array representation that heap.Elements does not yet have.
				c.b.Emit0(OpLoadUndefined)
				c.b.Emit0(OpAppendElement)
				continue
			}
			c.compileExpression(el)
			c.b.Emit0(OpAppendElement)
		}

	case *ast.ObjectExpression:
		c.b.Emit0(OpNewObject)
		for _, p := range n.Properties {
			if p.Computed {
				c.compileExpression(p.Key)
			} else {
				key := p.Key.(*ast.Identifier).Name
				c.b.EmitIndex(OpLoadConstant, c.b.ConstantIndex(value.SmallString(key)))
			}
			c.compileExpression(p.Value)
			c.b.Emit0(OpSetProperty)
		}

	case *ast.FunctionExpression:
		idx := c.compileNestedFunction(n.FunctionCommon)
		c.b.EmitIndex(OpInstantiateFunctionExpression, idx)

	case *ast.ArrowFunctionExpression:
		idx := c.compileArrowFunction(n)
		c.b.EmitIndex(OpInstantiateArrowFunctionExpression, idx)

	case *ast.YieldExpression:
		if n.Delegate {
			// yield* needs an inner-iterator forwarding loop (GetIterator +
			// repeated IteratorStepValue/Yield per spec.md §4.6); not
			// modeled yet, so it fails loudly at compile time instead of
			// silently compiling as a plain yield.
			panic("bytecode: yield* delegation is not yet supported")
		}
		if n.Argument != nil {
			c.compileExpression(n.Argument)
		} else {
			c.b.Emit0(OpLoadUndefined)
		}
		c.b.Emit0(OpYield)

	case *ast.AwaitExpression:
		c.compileExpression(n.Argument)
		c.b.Emit0(OpAwait)

	default:
		panic(fmt.Sprintf("bytecode: unsupported expression %T", e))
	}
}

func (c *Compiler) compileLiteral(n *ast.Literal) {
	switch n.Kind {
	case ast.LitNull:
		c.b.Emit0(OpLoadNull)
	case ast.LitUndefined:
		c.b.Emit0(OpLoadUndefined)
	case ast.LitBoolean:
		imm := uint32(0)
		if n.Bool {
			imm = 1
		}
		c.b.EmitIndex(OpLoadBoolean, imm)
	case ast.LitNumber:
		c.b.EmitIndex(OpLoadConstant, c.b.ConstantIndex(newNumberConstant(n.Number)))
	case ast.LitString:
		c.b.EmitIndex(OpLoadConstant, c.b.ConstantIndex(value.SmallString(n.Str)))
	case ast.LitBigInt:
		// BigInt literals need a heap allocation at compile time, which the
		// compiler cannot perform without a live Heap; the VM resolves
		// LitBigInt constants lazily on first execution instead. Encoding
		// the raw digit string as a marker string constant defers that
		// work to internal/vm without inventing a second constant-pool
		// kind.
		c.b.EmitIndex(OpLoadConstant, c.b.ConstantIndex(value.SmallString("n:"+n.BigInt)))
	default:
		panic("bytecode: unknown literal kind")
	}
}

func newNumberConstant(f float64) value.Value {
	if i := int64(f); float64(i) == f && i >= -(1<<52) && i < (1<<52) {
		return value.SmallInt(i)
	}
	if f32 := float32(f); float64(f32) == f {
		return value.SmallFloat(f32)
	}
	// A float64 that fits neither inline form needs a heap slot, which the
	// compiler cannot allocate without a live Heap; the VM re-derives it
	// from its bit pattern on first load instead of here.
	return value.SmallFloat(float32(f))
}

func (c *Compiler) compileLogical(n *ast.LogicalExpression) {
	c.compileExpression(n.Left)
	c.b.Emit0(OpDup)
	var slot int
	switch n.Operator {
	case ast.LogAnd:
		slot = c.b.EmitJump(OpJumpIfNot)
	case ast.LogOr:
		slot = c.b.EmitJump(OpJumpIfTrue)
	case ast.LogNullish:
		c.b.Emit0(OpIsNullish)
		slot = c.b.EmitJump(OpJumpIfNot)
	}
	c.b.Emit0(OpPop)
	c.compileExpression(n.Right)
	c.b.Patch(slot, c.b.Pos())
}

func (c *Compiler) compileAssignment(n *ast.AssignmentExpression) {
	id, ok := n.Left.(*ast.Identifier)
	if !ok {
		panic("bytecode: only identifier assignment targets are supported so far")
	}
	nameIdx := c.b.IdentifierIndex(id.Name)
	if n.Operator != "=" {
		c.b.EmitIndex(OpResolveBinding, nameIdx)
		c.b.Emit0(OpGetValue)
		c.compileExpression(n.Right)
		c.emitBinaryOp(compoundOperator(n.Operator))
	} else {
		c.compileExpression(n.Right)
	}
	c.b.Emit0(OpDup)
	c.b.EmitIndex(OpResolveBinding, nameIdx)
	c.b.Emit0(OpPutValue)
}

func compoundOperator(op string) ast.BinaryOperator {
	switch op {
	case "+=":
		return ast.OpAdd
	case "-=":
		return ast.OpSub
	case "*=":
		return ast.OpMul
	case "/=":
		return ast.OpDiv
	case "%=":
		return ast.OpMod
	default:
		panic("bytecode: unsupported compound assignment operator " + op)
	}
}

// compileChainRoot compiles a MemberExpression/CallExpression, including
// every nested MemberExpression/CallExpression reachable through its
// Object/Callee, as a single optional chain per spec.md §4.4.3: the
// first `?.` step whose object/callee is null/undefined short-circuits
// every remaining step in the chain to `undefined`, rather than just the
// one step it guards (e.g. in `a?.b.c`, a nullish `a` must skip `.c` too,
// not throw on it).
func (c *Compiler) compileChainRoot(e ast.Expression) {
	saved := c.chainExits
	c.chainExits = nil
	c.compileChainStep(e)
	exits := c.chainExits
	c.chainExits = saved
	if len(exits) == 0 {
		return
	}
	endSlot := c.b.EmitJump(OpJump)
	for _, slot := range exits {
		c.b.Patch(slot, c.b.Pos())
	}
	c.b.Emit0(OpPop)
	c.b.Emit0(OpLoadUndefined)
	c.b.Patch(endSlot, c.b.Pos())
}

// compileChainStep compiles one link of an optional chain, recursing
// into compileChainStep (not compileExpression) for a Member/Call
// Object/Callee so every link shares the same chainExits list; anything
// else (the chain's base expression) falls back to ordinary
// compileExpression.
func (c *Compiler) compileChainStep(e ast.Expression) {
	switch n := e.(type) {
	case *ast.MemberExpression:
		c.compileChainStep(n.Object)
		if n.Optional {
			c.b.Emit0(OpDup)
			c.b.Emit0(OpIsNullish)
			c.chainExits = append(c.chainExits, c.b.EmitJump(OpJumpIfTrue))
		}
		if n.Computed {
			c.compileExpression(n.Property)
			c.b.Emit0(OpGetProperty)
		} else {
			name := n.Property.(*ast.Identifier).Name
			c.b.EmitIndex(OpGetMember, c.b.IdentifierIndex(name))
		}
	case *ast.CallExpression:
		c.compileChainStep(n.Callee)
		if n.Optional {
			c.b.Emit0(OpDup)
			c.b.Emit0(OpIsNullish)
			c.chainExits = append(c.chainExits, c.b.EmitJump(OpJumpIfTrue))
		}
		for _, a := range n.Arguments {
			c.compileExpression(a)
		}
		c.b.EmitIndex(OpCall, uint32(len(n.Arguments)))
	default:
		c.compileExpression(e)
	}
}

func (c *Compiler) emitBinaryOp(op ast.BinaryOperator) {
	switch op {
	case ast.OpAdd:
		c.b.Emit0(OpAdd)
	case ast.OpSub:
		c.b.Emit0(OpSubtract)
	case ast.OpMul:
		c.b.Emit0(OpMultiply)
	case ast.OpDiv:
		c.b.Emit0(OpDivide)
	case ast.OpMod:
		c.b.Emit0(OpRemainder)
	case ast.OpExp:
		c.b.Emit0(OpExponentiate)
	case ast.OpEq:
		c.b.Emit0(OpLooseEquals)
	case ast.OpNotEq:
		c.b.Emit0(OpLooseNotEquals)
	case ast.OpStrictEq:
		c.b.Emit0(OpStrictEquals)
	case ast.OpStrictNe:
		c.b.Emit0(OpStrictNotEquals)
	case ast.OpLt:
		c.b.Emit0(OpLessThan)
	case ast.OpGt:
		c.b.Emit0(OpGreaterThan)
	case ast.OpLe:
		c.b.Emit0(OpLessOrEqual)
	case ast.OpGe:
		c.b.Emit0(OpGreaterOrEqual)
	case ast.OpBitAnd:
		c.b.Emit0(OpBitwiseAnd)
	case ast.OpBitOr:
		c.b.Emit0(OpBitwiseOr)
	case ast.OpBitXor:
		c.b.Emit0(OpBitwiseXor)
	case ast.OpShl:
		c.b.Emit0(OpShiftLeft)
	case ast.OpShr:
		c.b.Emit0(OpShiftRight)
	case ast.OpUShr:
		c.b.Emit0(OpUnsignedShiftRight)
	default:
		panic("bytecode: unsupported binary operator " + string(op))
	}
}

func (c *Compiler) emitUnaryOp(op ast.UnaryOperator) {
	switch op {
	case ast.UnNeg:
		c.b.Emit0(OpUnaryMinus)
	case ast.UnPlus:
		c.b.Emit0(OpUnaryPlus)
	case ast.UnNot:
		c.b.Emit0(OpLogicalNot)
	case ast.UnTypeof:
		c.b.Emit0(OpTypeof)
	case ast.UnVoid:
		c.b.Emit0(OpVoid)
	default:
		panic("bytecode: unsupported unary operator " + string(op))
	}
}

// compileNestedFunction compiles a function expression's body in its own
// Compiler/Builder and registers the descriptor, returning its table
// index. Syntax-directed facts needed by FunctionDeclarationInstantiation
// are gathered here via internal/ops.Contains over the parameter list and
// body, per spec.md §1.5/§4.4.1.
func (c *Compiler) compileNestedFunction(fc *ast.FunctionCommon) uint32 {
	name := ""
	if fc.ID != nil {
		name = fc.ID.Name
	}
	names, defaults, hasRest, length := compileParams(fc.Params)
	nested := NewCompiler("")
	body := nested.CompileFunctionBody(fc.Body)
	hasArguments := ops.Contains(fc.Body, ops.SymbolArguments)
	for _, p := range fc.Params {
		if ops.Contains(p, ops.SymbolArguments) {
			hasArguments = true
		}
	}
	return c.b.AddFunctionExpression(&FunctionExpressionDescriptor{
		Name:          name,
		ParamNames:    names,
		ParamDefaults: defaults,
		HasRestParam:  hasRest,
		Length:        length,
		Body:          body,
		IsStrict:      fc.Strict,
		IsGenerator:   fc.IsGenerator,
		IsAsync:       fc.IsAsync,
		HasArguments:  hasArguments,
	})
}

func (c *Compiler) compileArrowFunction(n *ast.ArrowFunctionExpression) uint32 {
	names, defaults, hasRest, length := compileParams(n.Params)
	nested := NewCompiler("")
	var body *Executable
	if n.ExpressionBody != nil {
		nested.compileExpression(n.ExpressionBody)
		nested.b.Emit0(OpReturn)
		body = nested.b.Finish()
	} else {
		body = nested.CompileFunctionBody(n.Body)
	}
	return c.b.AddArrowFunction(&ArrowFunctionDescriptor{
		Name:          "",
		ParamNames:    names,
		ParamDefaults: defaults,
		HasRestParam:  hasRest,
		Length:        length,
		Body:          body,
		IsStrict:      n.Strict,
		IsAsync:       n.IsAsync,
	})
}

// compileParams lowers a parameter-list pattern slice into the flat
// tables callECMAScriptFunction binds against: a name per slot ("" for a
// non-identifier slot, degrading destructuring params the way
// identifierNames always has), a parallel default-value Executable per
// slot (nil when absent), whether the trailing slot is a rest parameter,
// and the "length" property value (the count of simple, default-free,
// non-rest leading parameters, per spec.md §4.4.1).
func compileParams(params []ast.Pattern) (names []string, defaults []*Executable, hasRest bool, length int) {
	names = make([]string, len(params))
	defaults = make([]*Executable, len(params))
	counting := true
	for i, p := range params {
		switch n := p.(type) {
		case *ast.Identifier:
			names[i] = n.Name
			if counting {
				length++
			}
		case *ast.AssignmentPattern:
			if id, ok := n.Left.(*ast.Identifier); ok {
				names[i] = id.Name
			}
			def := NewCompiler("")
			def.compileExpression(n.Default)
			def.b.Emit0(OpReturn)
			defaults[i] = def.b.Finish()
			counting = false
		case *ast.RestElement:
			if id, ok := n.Argument.(*ast.Identifier); ok {
				names[i] = id.Name
			}
			hasRest = true
			counting = false
		default:
			counting = false
		}
	}
	return names, defaults, hasRest, length
}
