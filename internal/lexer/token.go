package lexer

// TokenType discriminates the kinds of lexical tokens produced by Lexer,
// named after the ECMAScript lexical grammar's own terminology (spec.md
// §4.4: "a streaming byte scanner producing IdentifierName/Punctuator/
// NumericLiteral/StringLiteral/TemplateLiteral/RegularExpressionLiteral
// tokens").
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenKeyword
	TokenPrivateIdentifier
	TokenNumber
	TokenBigInt
	TokenString
	TokenTemplate
	TokenTemplateHead
	TokenTemplateMiddle
	TokenTemplateTail
	TokenRegExp
	TokenPunctuator
	TokenLineTerminator
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "TokenEOF"
	case TokenIdentifier:
		return "TokenIdentifier"
	case TokenKeyword:
		return "TokenKeyword"
	case TokenPrivateIdentifier:
		return "TokenPrivateIdentifier"
	case TokenNumber:
		return "TokenNumber"
	case TokenBigInt:
		return "TokenBigInt"
	case TokenString:
		return "TokenString"
	case TokenTemplate:
		return "TokenTemplate"
	case TokenTemplateHead:
		return "TokenTemplateHead"
	case TokenTemplateMiddle:
		return "TokenTemplateMiddle"
	case TokenTemplateTail:
		return "TokenTemplateTail"
	case TokenRegExp:
		return "TokenRegExp"
	case TokenPunctuator:
		return "TokenPunctuator"
	case TokenLineTerminator:
		return "TokenLineTerminator"
	default:
		return "TokenType(?)"
	}
}

// Token is a single lexical token: its type, 1-based line/column of its
// first byte, the literal text it spans, and whether a line terminator
// appeared in the whitespace immediately before it (ASI needs this).
type Token struct {
	Type              TokenType
	Line, Column      int
	Literal           string
	PrecededByNewline bool
}

var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"let": true, "static": true, "async": true, "await": true, "of": true,
	"get": true, "set": true, "null": true, "true": true, "false": true,
}

func isKeyword(s string) bool { return keywords[s] }
