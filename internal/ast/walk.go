package ast

// Walk performs a pre-order traversal of node and its children, calling
// visit at each node. When visit returns false, Walk does not descend into
// that node's children, but sibling subtrees are still visited — this is
// what lets internal/ops.Contains stop scanning past a nested function
// boundary without aborting the scan of the rest of the tree.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || isNilNode(node) {
		return
	}
	if !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Body {
			Walk(s, visit)
		}
	case *ExpressionStatement:
		Walk(n.Expression, visit)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			Walk(d, visit)
		}
	case *VariableDeclarator:
		Walk(n.ID, visit)
		if n.Init != nil {
			Walk(n.Init, visit)
		}
	case *BlockStatement:
		for _, s := range n.Body {
			Walk(s, visit)
		}
	case *ReturnStatement:
		if n.Argument != nil {
			Walk(n.Argument, visit)
		}
	case *IfStatement:
		Walk(n.Test, visit)
		Walk(n.Consequent, visit)
		if n.Alternate != nil {
			Walk(n.Alternate, visit)
		}
	case *ForStatement:
		if n.Init != nil {
			Walk(n.Init, visit)
		}
		if n.Test != nil {
			Walk(n.Test, visit)
		}
		if n.Update != nil {
			Walk(n.Update, visit)
		}
		Walk(n.Body, visit)
	case *ForInOfStatement:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
		Walk(n.Body, visit)
	case *LabeledStatement:
		Walk(n.Body, visit)
	case *FunctionDeclaration:
		walkFunctionCommon(n.FunctionCommon, visit)
	case *ClassDeclaration:
		walkClassCommon(n.ClassCommon, visit)
	case *ThrowStatement:
		Walk(n.Argument, visit)
	case *TryStatement:
		Walk(n.Block, visit)
		if n.HasCatch {
			if n.Param != nil {
				Walk(n.Param, visit)
			}
			Walk(n.Catch, visit)
		}
		if n.Finally != nil {
			Walk(n.Finally, visit)
		}
	case *ArrayPattern:
		for _, e := range n.Elements {
			if e != nil {
				Walk(e, visit)
			}
		}
		if n.Rest != nil {
			Walk(n.Rest, visit)
		}
	case *ObjectPattern:
		for _, p := range n.Properties {
			if p.Computed {
				Walk(p.Key, visit)
			}
			Walk(p.Value, visit)
		}
		if n.Rest != nil {
			Walk(n.Rest, visit)
		}
	case *AssignmentPattern:
		Walk(n.Left, visit)
		Walk(n.Default, visit)
	case *RestElement:
		Walk(n.Argument, visit)
	case *BinaryExpression:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *LogicalExpression:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *UnaryExpression:
		Walk(n.Argument, visit)
	case *AssignmentExpression:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *CallExpression:
		Walk(n.Callee, visit)
		for _, a := range n.Arguments {
			Walk(a, visit)
		}
	case *MemberExpression:
		Walk(n.Object, visit)
		if n.Computed {
			Walk(n.Property, visit)
		}
	case *ArrayExpression:
		for _, e := range n.Elements {
			if e != nil {
				Walk(e, visit)
			}
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			if p.Computed {
				Walk(p.Key, visit)
			}
			Walk(p.Value, visit)
		}
	case *FunctionExpression:
		walkFunctionCommon(n.FunctionCommon, visit)
	case *ArrowFunctionExpression:
		for _, p := range n.Params {
			Walk(p, visit)
		}
		if n.ExpressionBody != nil {
			Walk(n.ExpressionBody, visit)
		} else if n.Body != nil {
			Walk(n.Body, visit)
		}
	case *ClassExpression:
		walkClassCommon(n.ClassCommon, visit)
	case *NewExpression:
		Walk(n.Callee, visit)
		for _, a := range n.Arguments {
			Walk(a, visit)
		}
	case *SequenceExpression:
		for _, e := range n.Expressions {
			Walk(e, visit)
		}
	case *ConditionalExpression:
		Walk(n.Test, visit)
		Walk(n.Consequent, visit)
		Walk(n.Alternate, visit)
	case *YieldExpression:
		if n.Argument != nil {
			Walk(n.Argument, visit)
		}
	case *AwaitExpression:
		Walk(n.Argument, visit)
	case *SpreadElement:
		Walk(n.Argument, visit)
	case *TemplateLiteral:
		for _, e := range n.Expressions {
			Walk(e, visit)
		}
	}
}

func walkFunctionCommon(fc *FunctionCommon, visit func(Node) bool) {
	if fc == nil {
		return
	}
	if fc.ID != nil {
		Walk(fc.ID, visit)
	}
	for _, p := range fc.Params {
		Walk(p, visit)
	}
	if fc.Body != nil {
		Walk(fc.Body, visit)
	}
}

func walkClassCommon(cc *ClassCommon, visit func(Node) bool) {
	if cc == nil {
		return
	}
	if cc.ID != nil {
		Walk(cc.ID, visit)
	}
	if cc.SuperClass != nil {
		Walk(cc.SuperClass, visit)
	}
	for _, m := range cc.Members {
		if m.Computed {
			Walk(m.Key, visit)
		}
		if m.IsMethod {
			walkFunctionCommon(m.Value, visit)
		} else if m.FieldInit != nil {
			Walk(m.FieldInit, visit)
		}
	}
}

// isNilNode guards against a typed-nil interface value (e.g. a nil
// *Identifier stored in a Pattern field) reaching visit, which would
// otherwise panic on the type switch's field accesses.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *BlockStatement:
		return v == nil
	}
	return false
}
