package query

import (
	"fmt"

	"github.com/vegasq/tabcat/mask"
	"github.com/vegasq/tabcat/table"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Elementwise logical operators
	TokenAnd TokenType = iota // &
	TokenOr                   // |
	TokenXor                  // ^
	TokenNot                  // ~

	// Comparison operators
	TokenEqual        // == or =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Grouping
	TokenLParen
	TokenRParen

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenBool

	// Native logical keywords (and, or, not). Lexed so the parser can
	// reject them with a useful message.
	TokenKeyword

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenAnd:          "&",
	TokenOr:           "|",
	TokenXor:          "^",
	TokenNot:          "~",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenBool:         "bool",
	TokenKeyword:      "keyword",
	TokenEOF:          "end of input",
	TokenError:        "invalid character",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}

// Expression evaluates to one indicator position per record of a table.
type Expression interface {
	Evaluate(t *table.Table) (mask.Bools, error)
	String() string
}

// BinaryExpr combines two indicators elementwise (&, | or ^)
type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
}

// NotExpr inverts an indicator (~)
type NotExpr struct {
	Expr Expression
}

// ComparisonExpr broadcasts `column op value` across a table
type ComparisonExpr struct {
	Column   string
	Operator mask.Op
	Value    interface{}
}

// Evaluate evaluates both sides over the whole table and combines them
// position by position.
func (b *BinaryExpr) Evaluate(t *table.Table) (mask.Bools, error) {
	left, err := b.Left.Evaluate(t)
	if err != nil {
		return mask.Bools{}, err
	}

	right, err := b.Right.Evaluate(t)
	if err != nil {
		return mask.Bools{}, err
	}

	switch b.Operator {
	case TokenAnd:
		return left.And(right)
	case TokenOr:
		return left.Or(right)
	case TokenXor:
		return left.Xor(right)
	default:
		return mask.Bools{}, fmt.Errorf("unsupported logical operator %v", b.Operator)
	}
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// Evaluate inverts the inner indicator
func (n *NotExpr) Evaluate(t *table.Table) (mask.Bools, error) {
	inner, err := n.Expr.Evaluate(t)
	if err != nil {
		return mask.Bools{}, err
	}
	return inner.Not(), nil
}

func (n *NotExpr) String() string {
	return fmt.Sprintf("~%s", n.Expr)
}

// Evaluate evaluates a comparison expression
func (c *ComparisonExpr) Evaluate(t *table.Table) (mask.Bools, error) {
	return mask.Compare(t, c.Column, c.Operator, c.Value)
}

func (c *ComparisonExpr) String() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("(%s %s %q)", c.Column, c.Operator, s)
	}
	return fmt.Sprintf("(%s %s %v)", c.Column, c.Operator, c.Value)
}
