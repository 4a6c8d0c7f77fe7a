package parser

import (
	"github.com/trynova/nova-sub003/internal/ast"
	"github.com/trynova/nova-sub003/internal/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.isPunct(";"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BlockStatement{}, nil

	case p.isPunct("{"):
		return p.parseBlockStatement()

	case p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const"):
		decl, err := p.parseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		if err := p.consumeSemicolon(); err != nil {
			return nil, err
		}
		return decl, nil

	case p.isKeyword("if"):
		return p.parseIfStatement()

	case p.isKeyword("for"):
		return p.parseForStatement()

	case p.isKeyword("while"):
		return p.parseWhileStatement()

	case p.isKeyword("do"):
		return nil, p.errorf("do-while loops are not yet supported")

	case p.isKeyword("break"):
		return p.parseBreakOrContinue(true)

	case p.isKeyword("continue"):
		return p.parseBreakOrContinue(false)

	case p.isKeyword("return"):
		return p.parseReturnStatement()

	case p.isKeyword("throw"):
		return p.parseThrowStatement()

	case p.isKeyword("try"):
		return nil, p.errorf("try statements are not yet supported")

	case p.isKeyword("switch"):
		return nil, p.errorf("switch statements are not yet supported")

	case p.isKeyword("with"):
		return nil, p.errorf("with statements are not yet supported")

	case p.isKeyword("class"):
		return nil, p.errorf("class declarations are not yet supported")

	case p.isKeyword("debugger"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.consumeSemicolon(); err != nil {
			return nil, err
		}
		return &ast.BlockStatement{}, nil

	case p.isKeyword("function"):
		return p.parseFunctionDeclaration(false)

	case p.isKeyword("async") && p.peekIsFunctionKeyword():
		if err := p.advance(); err != nil { // consume 'async'
			return nil, err
		}
		return p.parseFunctionDeclaration(true)

	default:
		return p.parseExpressionOrLabeledStatement()
	}
}

// peekIsFunctionKeyword looks one token past the current "async" to tell an
// async function declaration apart from "async" used as a plain
// identifier/expression start, restoring the parser's position either way.
func (p *Parser) peekIsFunctionKeyword() bool {
	save := p.tokStart
	if err := p.advance(); err != nil {
		return false
	}
	isFunc := p.isKeyword("function") && !p.tok.PrecededByNewline
	if err := p.resetTo(save); err != nil {
		return false
	}
	return isFunc
}

func (p *Parser) parseExpressionOrLabeledStatement() (ast.Statement, error) {
	if p.tok.Type == lexer.TokenIdentifier || isContextualIdentifier(p.tok) {
		save := p.tokStart
		name := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isPunct(":") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ast.LabeledStatement{Label: name, Body: body}, nil
		}
		if err := p.resetTo(save); err != nil {
			return nil, err
		}
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	if !p.isPunct("{") {
		return nil, p.errorf("expected '{'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.isPunct("}") {
		if p.tok.Type == lexer.TokenEOF {
			return nil, p.errorf("unexpected end of input in block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return &ast.BlockStatement{Body: body}, nil
}

// consumeSemicolon implements automatic semicolon insertion's relevant
// subset: an explicit `;` is always consumed; otherwise a `}`, EOF, or a
// line terminator immediately before the current token ends the statement
// silently.
func (p *Parser) consumeSemicolon() error {
	if p.isPunct(";") {
		return p.advance()
	}
	if p.isPunct("}") || p.tok.Type == lexer.TokenEOF || p.tok.PrecededByNewline {
		return nil
	}
	return p.errorf("expected ';'")
}

func variableKindOf(literal string) ast.VariableKind {
	switch literal {
	case "let":
		return ast.VarLet
	case "const":
		return ast.VarConst
	default:
		return ast.VarVar
	}
}

func (p *Parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	kind := variableKindOf(p.tok.Literal)
	if err := p.advance(); err != nil {
		return nil, err
	}
	var decls []*ast.VariableDeclarator
	for {
		d, err := p.parseVariableDeclarator(kind)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return &ast.VariableDeclaration{Kind: kind, Declarations: decls}, nil
}

func (p *Parser) parseVariableDeclarator(kind ast.VariableKind) (*ast.VariableDeclarator, error) {
	if p.isPunct("[") || p.isPunct("{") {
		return nil, p.errorf("destructuring declarations are not yet supported")
	}
	if p.tok.Type != lexer.TokenIdentifier && !isContextualIdentifier(p.tok) {
		return nil, p.errorf("expected binding identifier")
	}
	id := &ast.Identifier{Name: p.tok.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.isPunct("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		init, err = p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
	} else if kind == ast.VarConst {
		return nil, p.errorf("missing initializer in const declaration")
	}
	return &ast.VariableDeclarator{ID: id, Init: init}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if err := p.advance(); err != nil { // 'if'
		return nil, err
	}
	if !p.isPunct("(") {
		return nil, p.errorf("expected '(' after 'if'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var alt ast.Statement
	if p.isKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	if err := p.advance(); err != nil { // 'while'
		return nil, err
	}
	if !p.isPunct("(") {
		return nil, p.errorf("expected '(' after 'while'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	// A ForStatement with no Init/Update tests before every iteration just
	// like `while`, so this desugaring is semantically exact rather than an
	// approximation — there is no dedicated while-loop AST node to build.
	return &ast.ForStatement{Test: test, Body: body}, nil
}

func (p *Parser) parseBreakOrContinue(isBreak bool) (ast.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	label := ""
	if (p.tok.Type == lexer.TokenIdentifier || isContextualIdentifier(p.tok)) && !p.tok.PrecededByNewline {
		label = p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	if isBreak {
		return &ast.BreakStatement{Label: label}, nil
	}
	return &ast.ContinueStatement{Label: label}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var arg ast.Expression
	if !p.isPunct(";") && !p.isPunct("}") && p.tok.Type != lexer.TokenEOF && !p.tok.PrecededByNewline {
		var err error
		arg, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Argument: arg}, nil
}

func (p *Parser) parseThrowStatement() (ast.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.PrecededByNewline {
		return nil, p.errorf("illegal newline after 'throw'")
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Argument: arg}, nil
}

func (p *Parser) parseFunctionDeclaration(isAsync bool) (ast.Statement, error) {
	if err := p.advance(); err != nil { // 'function'
		return nil, err
	}
	isGen := false
	if p.isPunct("*") {
		isGen = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.Type != lexer.TokenIdentifier && !isContextualIdentifier(p.tok) {
		return nil, p.errorf("expected function name")
	}
	name := &ast.Identifier{Name: p.tok.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{FunctionCommon: &ast.FunctionCommon{
		ID: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGen,
	}}, nil
}

func (p *Parser) parseForStatement() (ast.Statement, error) {
	if err := p.advance(); err != nil { // 'for'
		return nil, err
	}
	if p.isKeyword("await") {
		return nil, p.errorf("for-await-of is not yet supported")
	}
	if !p.isPunct("(") {
		return nil, p.errorf("expected '(' after 'for'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
		return p.parseForWithDeclaration()
	}

	if p.isPunct(";") {
		return p.finishClassicFor(nil)
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("in") || p.isKeyword("of") {
		return p.finishForInOf(expr, nil)
	}
	return p.finishClassicFor(expr)
}

func (p *Parser) parseForWithDeclaration() (ast.Statement, error) {
	kind := variableKindOf(p.tok.Literal)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isPunct("[") || p.isPunct("{") {
		return nil, p.errorf("destructuring for-loop targets are not yet supported")
	}
	if p.tok.Type != lexer.TokenIdentifier && !isContextualIdentifier(p.tok) {
		return nil, p.errorf("expected binding identifier")
	}
	id := &ast.Identifier{Name: p.tok.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.isKeyword("in") || p.isKeyword("of") {
		left := &ast.VariableDeclaration{Kind: kind, Declarations: []*ast.VariableDeclarator{{ID: id}}}
		return p.finishForInOf(nil, left)
	}

	var init ast.Expression
	if p.isPunct("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		init, err = p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
	}
	decls := []*ast.VariableDeclarator{{ID: id, Init: init}}
	for p.isPunct(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		d, err := p.parseVariableDeclarator(kind)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return p.finishClassicFor(&ast.VariableDeclaration{Kind: kind, Declarations: decls})
}

// finishForInOf parses the shared `in`/`of` Right ')' Body tail. Exactly
// one of exprTarget/declTarget is non-nil, matching the two Left shapes
// internal/bytecode's bindForTarget understands.
func (p *Parser) finishForInOf(exprTarget ast.Expression, declTarget *ast.VariableDeclaration) (ast.Statement, error) {
	forOf := p.isKeyword("of")
	if err := p.advance(); err != nil {
		return nil, err
	}
	var right ast.Expression
	var err error
	if forOf {
		right, err = p.parseAssignmentExpression()
	} else {
		right, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	kind := ast.ForIn
	if forOf {
		kind = ast.ForOf
	}
	var left ast.Node
	if declTarget != nil {
		left = declTarget
	} else {
		id, ok := exprTarget.(*ast.Identifier)
		if !ok {
			return nil, p.errorf("for-in/for-of target must be an identifier")
		}
		left = id
	}
	return &ast.ForInOfStatement{Kind: kind, Left: left, Right: right, Body: body}, nil
}

// finishClassicFor parses the ';' Test ';' Update ')' Body tail shared by
// every classic for-loop head shape, given its already-parsed Init (nil,
// an Expression, or a *ast.VariableDeclaration).
func (p *Parser) finishClassicFor(init ast.Node) (ast.Statement, error) {
	if !p.isPunct(";") {
		return nil, p.errorf("expected ';' in for statement")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var test ast.Expression
	if !p.isPunct(";") {
		var err error
		test, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if !p.isPunct(";") {
		return nil, p.errorf("expected ';' in for statement")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var update ast.Expression
	if !p.isPunct(")") {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}, nil
}
