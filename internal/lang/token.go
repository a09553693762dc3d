package lang

import "fmt"

// TokenType identifies a lexical token class.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenProgram
	TokenSoliton
	TokenRoll
	TokenEntangle
	TokenMeasure
	TokenEdge // the H superposition literal
	TokenIdent
	TokenNumber
	TokenAssign
	TokenSemicolon
	TokenColon
	TokenDot
	TokenLParen
	TokenRParen
	TokenComma
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenProgram:   "program",
	TokenSoliton:   "soliton",
	TokenRoll:      "roll",
	TokenEntangle:  "entangle",
	TokenMeasure:   "measure",
	TokenEdge:      "H",
	TokenIdent:     "identifier",
	TokenNumber:    "number",
	TokenAssign:    "'='",
	TokenSemicolon: "';'",
	TokenColon:     "':'",
	TokenDot:       "'.'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenComma:     "','",
}

func (t TokenType) String() string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// keywords maps reserved identifiers to their token types.
var keywords = map[string]TokenType{
	"program":  TokenProgram,
	"soliton":  TokenSoliton,
	"roll":     TokenRoll,
	"entangle": TokenEntangle,
	"measure":  TokenMeasure,
	"H":        TokenEdge,
}

// Token is a single lexical token with its source position.
type Token struct {
	Type   TokenType
	Text   string
	Number int // value for TokenNumber
	Line   int
	Column int
}

// SyntaxError reports a parse failure with the offending source line.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
