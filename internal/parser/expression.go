package parser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/trynova/nova-sub003/internal/ast"
	"github.com/trynova/nova-sub003/internal/lexer"
)

// parseExpression parses a full Expression production, including the comma
// operator (producing a SequenceExpression when more than one
// AssignmentExpression is chained).
func (p *Parser) parseExpression() (ast.Expression, error) {
	first, err := p.parseAssignmentExpression()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		return first, nil
	}
	exprs := []ast.Expression{first}
	for p.isPunct(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SequenceExpression{Expressions: exprs}, nil
}

var compoundAssignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

var unsupportedAssignOps = map[string]bool{
	"**=": true, "<<=": true, ">>=": true, ">>>=": true,
	"&=": true, "|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *Parser) parseAssignmentExpression() (ast.Expression, error) {
	if p.isKeyword("yield") {
		return p.parseYieldExpression()
	}
	left, err := p.parseConditionalExpression()
	if err != nil {
		return nil, err
	}
	if p.tok.Type == lexer.TokenPunctuator && compoundAssignOps[p.tok.Literal] {
		op := p.tok.Literal
		id, ok := left.(*ast.Identifier)
		if !ok {
			return nil, p.errorf("assignment to a non-identifier target is not yet supported")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Operator: op, Left: id, Right: right}, nil
	}
	if p.tok.Type == lexer.TokenPunctuator && unsupportedAssignOps[p.tok.Literal] {
		return nil, p.errorf("compound assignment operator %q is not yet supported", p.tok.Literal)
	}
	return left, nil
}

func (p *Parser) parseYieldExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isPunct("*") {
		return nil, p.errorf("yield* delegation is not yet supported")
	}
	if p.tok.PrecededByNewline || p.isPunct(")") || p.isPunct(";") || p.isPunct("}") ||
		p.isPunct(",") || p.isPunct("]") || p.isPunct(":") || p.tok.Type == lexer.TokenEOF {
		return &ast.YieldExpression{}, nil
	}
	arg, err := p.parseAssignmentExpression()
	if err != nil {
		return nil, err
	}
	return &ast.YieldExpression{Argument: arg}, nil
}

func (p *Parser) parseConditionalExpression() (ast.Expression, error) {
	test, err := p.parseBinaryExpression(1)
	if err != nil {
		return nil, err
	}
	if !p.isPunct("?") {
		return test, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cons, err := p.parseAssignmentExpression()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(":") {
		return nil, p.errorf("expected ':' in conditional expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	alt, err := p.parseAssignmentExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}, nil
}

type binaryOpInfo struct {
	prec       int
	rightAssoc bool
	logical    bool
}

// binaryOps covers every binary/logical operator internal/bytecode's
// emitBinaryOp/compileLogical can compile. `in`/`instanceof` have no
// BinaryOperator constant and no compiler case, so they are deliberately
// absent: a bare `x instanceof y` simply fails to parse past `x` with a
// clear syntax error at the caller, instead of compiling into something
// the compiler would panic on.
var binaryOps = map[string]binaryOpInfo{
	"??": {1, false, true},
	"||": {2, false, true},
	"&&": {3, false, true},
	"|":  {4, false, false},
	"^":  {5, false, false},
	"&":  {6, false, false},
	"==": {7, false, false}, "!=": {7, false, false}, "===": {7, false, false}, "!==": {7, false, false},
	"<": {8, false, false}, ">": {8, false, false}, "<=": {8, false, false}, ">=": {8, false, false},
	"<<": {9, false, false}, ">>": {9, false, false}, ">>>": {9, false, false},
	"+": {10, false, false}, "-": {10, false, false},
	"*": {11, false, false}, "/": {11, false, false}, "%": {11, false, false},
	"**": {12, true, false},
}

func (p *Parser) parseBinaryExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		if p.tok.Type != lexer.TokenPunctuator {
			break
		}
		info, ok := binaryOps[p.tok.Literal]
		if !ok || info.prec < minPrec {
			break
		}
		opLiteral := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right, err := p.parseBinaryExpression(nextMin)
		if err != nil {
			return nil, err
		}
		if info.logical {
			left = &ast.LogicalExpression{Operator: ast.LogicalOperator(opLiteral), Left: left, Right: right}
		} else {
			left = &ast.BinaryExpression{Operator: ast.BinaryOperator(opLiteral), Left: left, Right: right}
		}
	}
	return left, nil
}

// parseUnaryExpression covers the prefix operators internal/bytecode's
// emitUnaryOp supports (!,+,-,typeof,void) plus `await`, and desugars
// prefix/postfix `++`/`--` into the equivalent `+=`/`-=` compound
// assignment — there is no UpdateExpression node, and a compound
// assignment produces the identical new-value result the AST has no other
// way to express.
func (p *Parser) parseUnaryExpression() (ast.Expression, error) {
	switch {
	case p.isKeyword("await"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpression{Argument: arg}, nil

	case p.isKeyword("typeof"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: ast.UnTypeof, Argument: arg}, nil

	case p.isKeyword("void"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: ast.UnVoid, Argument: arg}, nil

	case p.isKeyword("delete"):
		return nil, p.errorf("delete is not yet supported")

	case p.isPunct("!"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: ast.UnNot, Argument: arg}, nil

	case p.isPunct("+"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: ast.UnPlus, Argument: arg}, nil

	case p.isPunct("-"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: ast.UnNeg, Argument: arg}, nil

	case p.isPunct("~"):
		return nil, p.errorf("bitwise-not (~) is not yet supported")

	case p.isPunct("++") || p.isPunct("--"):
		op := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return p.desugarUpdate(arg, op)

	default:
		expr, err := p.parseLeftHandSideExpression()
		if err != nil {
			return nil, err
		}
		if !p.tok.PrecededByNewline && (p.isPunct("++") || p.isPunct("--")) {
			op := p.tok.Literal
			if err := p.advance(); err != nil {
				return nil, err
			}
			return p.desugarUpdate(expr, op)
		}
		return expr, nil
	}
}

func (p *Parser) desugarUpdate(target ast.Expression, op string) (ast.Expression, error) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		return nil, p.errorf("increment/decrement target must be an identifier")
	}
	assignOp := "+="
	if op == "--" {
		assignOp = "-="
	}
	return &ast.AssignmentExpression{Operator: assignOp, Left: id, Right: &ast.Literal{Kind: ast.LitNumber, Number: 1}}, nil
}

func (p *Parser) parseLeftHandSideExpression() (ast.Expression, error) {
	var expr ast.Expression
	var err error
	if p.isKeyword("new") {
		expr, err = p.parseNewExpression()
	} else {
		expr, err = p.parsePrimaryExpression()
	}
	if err != nil {
		return nil, err
	}
	return p.parseCallOrMemberTail(expr)
}

func (p *Parser) parseNewExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume 'new'
		return nil, err
	}
	if p.isPunct(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !(p.tok.Type == lexer.TokenIdentifier && p.tok.Literal == "target") {
			return nil, p.errorf("expected 'target' after 'new.'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.MetaProperty{Meta: "new", Property: "target"}, nil
	}
	var callee ast.Expression
	var err error
	if p.isKeyword("new") {
		callee, err = p.parseNewExpression()
	} else {
		callee, err = p.parsePrimaryExpression()
	}
	if err != nil {
		return nil, err
	}
	callee, err = p.parseMemberTailNoCall(callee)
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.isPunct("(") {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return &ast.NewExpression{Callee: callee, Arguments: args}, nil
}

// parseMemberTailNoCall parses the `.`/`[...]` chain immediately following a
// `new` callee, stopping before any `(` so parseNewExpression can claim it
// as the constructor's own argument list.
func (p *Parser) parseMemberTailNoCall(expr ast.Expression) (ast.Expression, error) {
	for {
		switch {
		case p.isPunct("?."):
			return nil, p.errorf("optional chaining (?.) is not yet supported")
		case p.isPunct("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.TokenIdentifier && p.tok.Type != lexer.TokenKeyword {
				return nil, p.errorf("expected property name after '.'")
			}
			name := p.tok.Literal
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: &ast.Identifier{Name: name}}
		case p.isPunct("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.isPunct("]") {
				return nil, p.errorf("expected ']'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCallOrMemberTail(expr ast.Expression) (ast.Expression, error) {
	for {
		switch {
		case p.isPunct("?."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			switch {
			case p.isPunct("("):
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				expr = &ast.CallExpression{Callee: expr, Arguments: args, Optional: true}
			case p.isPunct("["):
				if err := p.advance(); err != nil {
					return nil, err
				}
				prop, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				if !p.isPunct("]") {
					return nil, p.errorf("expected ']'")
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
				expr = &ast.MemberExpression{Object: expr, Property: prop, Computed: true, Optional: true}
			default:
				if p.tok.Type != lexer.TokenIdentifier && p.tok.Type != lexer.TokenKeyword {
					return nil, p.errorf("expected property name after '?.'")
				}
				name := p.tok.Literal
				if err := p.advance(); err != nil {
					return nil, err
				}
				expr = &ast.MemberExpression{Object: expr, Property: &ast.Identifier{Name: name}, Optional: true}
			}
		case p.isPunct("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.TokenIdentifier && p.tok.Type != lexer.TokenKeyword {
				return nil, p.errorf("expected property name after '.'")
			}
			name := p.tok.Literal
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: &ast.Identifier{Name: name}}
		case p.isPunct("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.isPunct("]") {
				return nil, p.errorf("expected ']'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
		case p.isPunct("("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Callee: expr, Arguments: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Expression
	for !p.isPunct(")") {
		if p.isPunct("...") {
			return nil, p.errorf("spread arguments are not yet supported")
		}
		arg, err := p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimaryExpression() (ast.Expression, error) {
	switch {
	case p.tok.Type == lexer.TokenNumber:
		n, perr := parseNumberLiteral(p.tok.Literal)
		if perr != nil {
			return nil, p.errorf("invalid number literal %q", p.tok.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitNumber, Number: n}, nil

	case p.tok.Type == lexer.TokenBigInt:
		digits, derr := normalizeBigIntDigits(p.tok.Literal)
		if derr != nil {
			return nil, p.errorf("invalid bigint literal %q", p.tok.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBigInt, BigInt: digits}, nil

	case p.tok.Type == lexer.TokenString:
		s := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitString, Str: s}, nil

	case p.tok.Type == lexer.TokenTemplate:
		// A no-substitution template is semantically a string literal.
		s := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitString, Str: s}, nil

	case p.tok.Type == lexer.TokenTemplateHead:
		return nil, p.errorf("template literals with substitutions are not yet supported")

	case p.tok.Type == lexer.TokenRegExp:
		return nil, p.errorf("regular expression literals are not yet supported")

	case p.isKeyword("null"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitNull}, nil

	case p.isKeyword("true"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBoolean, Bool: true}, nil

	case p.isKeyword("false"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBoolean, Bool: false}, nil

	case p.isKeyword("this"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ThisExpression{}, nil

	case p.isKeyword("super"):
		return nil, p.errorf("super is not yet supported")

	case p.isKeyword("class"):
		return nil, p.errorf("class expressions are not yet supported")

	case p.isKeyword("function"):
		return p.parseFunctionExpression(false)

	case p.isKeyword("async"):
		return p.parseAsyncPrimary()

	case p.isPunct("("):
		arrow, matched, err := p.tryParseArrowFromParen(false)
		if err != nil {
			return nil, err
		}
		if matched {
			return arrow, nil
		}
		if err := p.advance(); err != nil { // consume '('
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.isPunct(")") {
			return nil, p.errorf("expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil

	case p.isPunct("["):
		return p.parseArrayExpression()

	case p.isPunct("{"):
		return p.parseObjectExpression()

	case p.tok.Type == lexer.TokenIdentifier || isContextualIdentifier(p.tok):
		name := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isPunct("=>") && !p.tok.PrecededByNewline {
			if err := p.advance(); err != nil {
				return nil, err
			}
			body, exprBody, err := p.parseArrowBody()
			if err != nil {
				return nil, err
			}
			return &ast.ArrowFunctionExpression{
				FunctionCommon: &ast.FunctionCommon{Params: []ast.Pattern{&ast.Identifier{Name: name}}, Body: body, IsArrow: true},
				ExpressionBody: exprBody,
			}, nil
		}
		return &ast.Identifier{Name: name}, nil

	default:
		return nil, p.errorf("unexpected token %q", p.tok.Literal)
	}
}

func (p *Parser) parseAsyncPrimary() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume 'async'
		return nil, err
	}
	if p.isKeyword("function") && !p.tok.PrecededByNewline {
		return p.parseFunctionExpression(true)
	}
	if p.isPunct("(") && !p.tok.PrecededByNewline {
		arrow, matched, err := p.tryParseArrowFromParen(true)
		if err != nil {
			return nil, err
		}
		if matched {
			return arrow, nil
		}
		// "async" wasn't an arrow head after all; it's a plain identifier,
		// and the '(' that follows is an ordinary call of it.
		return &ast.Identifier{Name: "async"}, nil
	}
	if (p.tok.Type == lexer.TokenIdentifier || isContextualIdentifier(p.tok)) && !p.tok.PrecededByNewline {
		name := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isPunct("=>") {
			return nil, p.errorf("expected '=>' after async arrow parameter")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, exprBody, err := p.parseArrowBody()
		if err != nil {
			return nil, err
		}
		return &ast.ArrowFunctionExpression{
			FunctionCommon: &ast.FunctionCommon{Params: []ast.Pattern{&ast.Identifier{Name: name}}, Body: body, IsArrow: true, IsAsync: true},
			ExpressionBody: exprBody,
		}, nil
	}
	return &ast.Identifier{Name: "async"}, nil
}

// tryParseArrowFromParen speculatively parses a `(` ... `)` `=>` arrow
// head. On anything else — malformed params, or a well-formed parameter
// list not followed by `=>` — it rewinds to the opening `(` via
// resetTo so the caller can reparse the same tokens as a parenthesized
// expression.
func (p *Parser) tryParseArrowFromParen(isAsync bool) (*ast.ArrowFunctionExpression, bool, error) {
	start := p.tokStart
	params, perr := p.parseParamList()
	if perr == nil && p.isPunct("=>") {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		body, exprBody, berr := p.parseArrowBody()
		if berr != nil {
			return nil, false, berr
		}
		return &ast.ArrowFunctionExpression{
			FunctionCommon: &ast.FunctionCommon{Params: params, Body: body, IsArrow: true, IsAsync: isAsync},
			ExpressionBody: exprBody,
		}, true, nil
	}
	if err := p.resetTo(start); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (p *Parser) parseArrowBody() (*ast.BlockStatement, ast.Expression, error) {
	if p.isPunct("{") {
		block, err := p.parseBlockStatement()
		return block, nil, err
	}
	expr, err := p.parseAssignmentExpression()
	return nil, expr, err
}

func (p *Parser) parseParamList() ([]ast.Pattern, error) {
	if !p.isPunct("(") {
		return nil, p.errorf("expected '('")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []ast.Pattern
	for !p.isPunct(")") {
		if p.isPunct("...") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.TokenIdentifier && !isContextualIdentifier(p.tok) {
				return nil, p.errorf("expected parameter name after '...'")
			}
			name := p.tok.Literal
			if err := p.advance(); err != nil {
				return nil, err
			}
			params = append(params, &ast.RestElement{Argument: &ast.Identifier{Name: name}})
			break
		}
		if p.isPunct("[") || p.isPunct("{") {
			return nil, p.errorf("destructuring parameters are not yet supported")
		}
		if p.tok.Type != lexer.TokenIdentifier && !isContextualIdentifier(p.tok) {
			return nil, p.errorf("expected parameter name")
		}
		name := p.tok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		var param ast.Pattern = &ast.Identifier{Name: name}
		if p.isPunct("=") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			def, err := p.parseAssignmentExpression()
			if err != nil {
				return nil, err
			}
			param = &ast.AssignmentPattern{Left: param, Default: def}
		}
		params = append(params, param)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.isPunct(")") {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseMethodBody() (*ast.FunctionCommon, error) {
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCommon{Params: params, Body: body}, nil
}

func (p *Parser) parseFunctionExpression(isAsync bool) (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume 'function'
		return nil, err
	}
	isGen := false
	if p.isPunct("*") {
		isGen = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	var name *ast.Identifier
	if p.tok.Type == lexer.TokenIdentifier || isContextualIdentifier(p.tok) {
		name = &ast.Identifier{Name: p.tok.Literal}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{FunctionCommon: &ast.FunctionCommon{
		ID: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGen,
	}}, nil
}

func (p *Parser) parseArrayExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var elements []ast.Expression
	for !p.isPunct("]") {
		if p.isPunct(",") {
			elements = append(elements, nil)
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.isPunct("...") {
			return nil, p.errorf("spread elements are not yet supported")
		}
		el, err := p.parseAssignmentExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.isPunct("]") {
		return nil, p.errorf("expected ']'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.ArrayExpression{Elements: elements}, nil
}

func (p *Parser) parseObjectExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	var props []ast.ObjectProperty
	for !p.isPunct("}") {
		prop, err := p.parseObjectProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.isPunct("}") {
		return nil, p.errorf("expected '}'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.ObjectExpression{Properties: props}, nil
}

func (p *Parser) parseObjectProperty() (ast.ObjectProperty, error) {
	if p.isPunct("...") {
		return ast.ObjectProperty{}, p.errorf("spread properties are not yet supported")
	}

	if p.isPunct("[") {
		if err := p.advance(); err != nil {
			return ast.ObjectProperty{}, err
		}
		key, err := p.parseAssignmentExpression()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		if !p.isPunct("]") {
			return ast.ObjectProperty{}, p.errorf("expected ']'")
		}
		if err := p.advance(); err != nil {
			return ast.ObjectProperty{}, err
		}
		if p.isPunct("(") {
			fc, err := p.parseMethodBody()
			if err != nil {
				return ast.ObjectProperty{}, err
			}
			return ast.ObjectProperty{Key: key, Computed: true, Value: &ast.FunctionExpression{FunctionCommon: fc}}, nil
		}
		if !p.isPunct(":") {
			return ast.ObjectProperty{}, p.errorf("expected ':'")
		}
		if err := p.advance(); err != nil {
			return ast.ObjectProperty{}, err
		}
		val, err := p.parseAssignmentExpression()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Computed: true, Value: val}, nil
	}

	if p.tok.Type == lexer.TokenKeyword && (p.tok.Literal == "get" || p.tok.Literal == "set") {
		save := p.tokStart
		if err := p.advance(); err != nil {
			return ast.ObjectProperty{}, err
		}
		if !p.isPunct(":") && !p.isPunct(",") && !p.isPunct("}") && !p.isPunct("(") {
			return ast.ObjectProperty{}, p.errorf("getter/setter object properties are not yet supported")
		}
		// "get"/"set" was a plain property name; rewind and fall through.
		if err := p.resetTo(save); err != nil {
			return ast.ObjectProperty{}, err
		}
	}

	if p.tok.Type != lexer.TokenIdentifier && p.tok.Type != lexer.TokenKeyword &&
		p.tok.Type != lexer.TokenString && p.tok.Type != lexer.TokenNumber {
		return ast.ObjectProperty{}, p.errorf("expected property name")
	}

	var key ast.Expression
	keyName := ""
	switch p.tok.Type {
	case lexer.TokenString:
		key = &ast.Literal{Kind: ast.LitString, Str: p.tok.Literal}
	case lexer.TokenNumber:
		n, perr := parseNumberLiteral(p.tok.Literal)
		if perr != nil {
			return ast.ObjectProperty{}, p.errorf("invalid number literal %q", p.tok.Literal)
		}
		key = &ast.Literal{Kind: ast.LitNumber, Number: n}
	default:
		keyName = p.tok.Literal
		key = &ast.Identifier{Name: keyName}
	}
	if err := p.advance(); err != nil {
		return ast.ObjectProperty{}, err
	}

	if p.isPunct("(") {
		fc, err := p.parseMethodBody()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Value: &ast.FunctionExpression{FunctionCommon: fc}}, nil
	}
	if p.isPunct(":") {
		if err := p.advance(); err != nil {
			return ast.ObjectProperty{}, err
		}
		val, err := p.parseAssignmentExpression()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Value: val}, nil
	}
	if keyName == "" {
		return ast.ObjectProperty{}, p.errorf("expected ':' after property key")
	}
	return ast.ObjectProperty{Key: key, Value: &ast.Identifier{Name: keyName}, Shorthand: true}, nil
}

func parseNumberLiteral(lit string) (float64, error) {
	lower := strings.ToLower(lit)
	switch {
	case strings.HasPrefix(lower, "0x"):
		n, err := strconv.ParseUint(lower[2:], 16, 64)
		return float64(n), err
	case strings.HasPrefix(lower, "0b"):
		n, err := strconv.ParseUint(lower[2:], 2, 64)
		return float64(n), err
	case strings.HasPrefix(lower, "0o"):
		n, err := strconv.ParseUint(lower[2:], 8, 64)
		return float64(n), err
	default:
		return strconv.ParseFloat(lit, 64)
	}
}

// normalizeBigIntDigits converts a BigInt literal's source text (which may
// carry a 0x/0b/0o prefix) into the decimal-digit string ast.Literal.BigInt
// is documented to hold.
func normalizeBigIntDigits(lit string) (string, error) {
	lower := strings.ToLower(lit)
	base := 10
	digits := lower
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	}
	if base == 10 {
		return digits, nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(digits, base); !ok {
		return "", fmt.Errorf("parser: invalid bigint literal %q", lit)
	}
	return n.String(), nil
}
