package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/tabcat/mask"
)

var (
	// ErrSyntax is wrapped by every parse error
	ErrSyntax = errors.New("syntax error")

	// ErrNativeLogical is returned for the words and, or, not. Indicators
	// are combined with the elementwise operators &, | and ~ instead.
	ErrNativeLogical = errors.New("logical keywords are not supported on indicators; use & for and, | for or, ~ for not")
)

// Parser parses indicator expressions into an AST
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *ExpressionDepthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:       tokens,
		pos:          0,
		depthCounter: NewExpressionDepthCounter(),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return p.errorf("expected %v, got %s", tokType, describe(p.current()))
	}
	p.advance()
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return fmt.Sprintf("invalid input %q", tok.Value)
	default:
		return fmt.Sprintf("%q", tok.Value)
	}
}

// Parse parses an indicator expression.
//
// Precedence, from tightest to loosest binding:
//
//	( )              grouping
//	~                elementwise not
//	== != < > <= >=  comparison of a column with a literal
//	&                elementwise and
//	^                elementwise xor
//	|                elementwise or
//
// Comparisons always bind tighter than the logical operators, so
// `cty > 20 & class == "suv"` means `(cty > 20) & (class == "suv")`.
// A comparison cannot be chained: `1 < cty < 20` is rejected.
func Parse(input string) (Expression, error) {
	// Validate expression length
	if err := ValidateExpression(input); err != nil {
		return nil, err
	}

	tokens := Tokenize(input)

	// Validate token count
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	for _, tok := range tokens {
		if tok.Type == TokenKeyword {
			return nil, fmt.Errorf("%w (found %q)", ErrNativeLogical, tok.Value)
		}
	}

	parser := NewParser(tokens)
	expr, err := parser.parseOr()
	if err != nil {
		return nil, err
	}
	if parser.current().Type != TokenEOF {
		return nil, parser.errorf("unexpected %s after expression", describe(parser.current()))
	}
	return expr, nil
}

// parseOr parses | expressions (lowest precedence)
func (p *Parser) parseOr() (Expression, error) {
	if err := p.depthCounter.Enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenOr, Right: right}
	}

	return left, nil
}

// parseXor parses ^ expressions
func (p *Parser) parseXor() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenXor {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenXor, Right: right}
	}

	return left, nil
}

// parseAnd parses & expressions (higher precedence than ^ and |)
func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenAnd, Right: right}
	}

	return left, nil
}

// parseUnary parses ~ prefixes
func (p *Parser) parseUnary() (Expression, error) {
	if p.current().Type == TokenNot {
		if err := p.depthCounter.Enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()

		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a parenthesized expression or a comparison
func (p *Parser) parsePrimary() (Expression, error) {
	if p.current().Type == TokenLParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseComparison()
}

// parseComparison parses `column op literal` or `literal op column`
func (p *Parser) parseComparison() (Expression, error) {
	var expr *ComparisonExpr

	if p.current().Type == TokenIdent {
		column := p.current().Value
		if err := ValidateColumnName(column); err != nil {
			return nil, err
		}
		p.advance()

		op, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		expr = &ComparisonExpr{Column: column, Operator: op, Value: value}
	} else {
		value, err := p.parseLiteral()
		if err != nil {
			return nil, p.errorf("expected column name or '(', got %s", describe(p.current()))
		}

		op, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		if p.current().Type != TokenIdent {
			return nil, p.errorf("expected column name, got %s", describe(p.current()))
		}
		column := p.current().Value
		if err := ValidateColumnName(column); err != nil {
			return nil, err
		}
		p.advance()
		expr = &ComparisonExpr{Column: column, Operator: flip(op), Value: value}
	}

	if isComparison(p.current().Type) {
		return nil, p.errorf("chained comparison %s %s; combine two comparisons with & instead", expr, p.current().Value)
	}
	return expr, nil
}

func isComparison(t TokenType) bool {
	switch t {
	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		return true
	default:
		return false
	}
}

// parseOperator parses a comparison operator
func (p *Parser) parseOperator() (mask.Op, error) {
	tok := p.current()
	if !isComparison(tok.Type) {
		return 0, p.errorf("expected comparison operator, got %s", describe(tok))
	}
	op, err := mask.ParseOp(tok.Value)
	if err != nil {
		return 0, p.errorf("%v", err)
	}
	p.advance()
	return op, nil
}

// parseLiteral parses a string, number or bool literal
func (p *Parser) parseLiteral() (interface{}, error) {
	tok := p.current()
	var value interface{}
	switch tok.Type {
	case TokenString:
		value = tok.Value
	case TokenNumber:
		// Try to parse as int first, then float
		if intVal, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			value = intVal
		} else if floatVal, err := strconv.ParseFloat(tok.Value, 64); err == nil {
			value = floatVal
		} else {
			return nil, p.errorf("invalid number %q", tok.Value)
		}
	case TokenBool:
		value = strings.EqualFold(tok.Value, "true")
	default:
		return nil, p.errorf("expected value (string, number, or bool), got %s", describe(tok))
	}
	p.advance()
	return value, nil
}

// flip mirrors an operator so that `literal op column` can be stored as
// `column op' literal`.
func flip(op mask.Op) mask.Op {
	switch op {
	case mask.Lt:
		return mask.Gt
	case mask.Gt:
		return mask.Lt
	case mask.Le:
		return mask.Ge
	case mask.Ge:
		return mask.Le
	default:
		return op
	}
}
