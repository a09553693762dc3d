package lang

import "strconv"

// Lexer tokenizes S-Lang source text.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

// Tokenize scans the entire source and returns the token stream,
// terminated by an EOF token. Whitespace, newlines and `#` line comments
// are skipped. Unknown single characters are silently skipped; malformed
// input surfaces as a parse failure, not a lex failure.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token

	for l.pos < len(l.src) {
		l.skipSpace()
		if l.pos >= len(l.src) {
			break
		}

		ch := l.src[l.pos]
		switch {
		case ch == '#':
			l.skipComment()
		case ch == '\n':
			l.advance()
		case ch == '=':
			tokens = append(tokens, l.single(TokenAssign, "="))
		case ch == ';':
			tokens = append(tokens, l.single(TokenSemicolon, ";"))
		case ch == ':':
			tokens = append(tokens, l.single(TokenColon, ":"))
		case ch == '.':
			tokens = append(tokens, l.single(TokenDot, "."))
		case ch == '(':
			tokens = append(tokens, l.single(TokenLParen, "("))
		case ch == ')':
			tokens = append(tokens, l.single(TokenRParen, ")"))
		case ch == ',':
			tokens = append(tokens, l.single(TokenComma, ","))
		case isDigit(ch):
			tokens = append(tokens, l.number())
		case isIdentStart(ch):
			tokens = append(tokens, l.identifier())
		default:
			// Unknown character: skip.
			l.advance()
		}
	}

	tokens = append(tokens, Token{Type: TokenEOF, Line: l.line, Column: l.column})
	return tokens
}

func (l *Lexer) single(t TokenType, text string) Token {
	tok := Token{Type: t, Text: text, Line: l.line, Column: l.column}
	l.advance()
	return tok
}

func (l *Lexer) number() Token {
	start := l.pos
	line, col := l.line, l.column
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance()
	}
	text := l.src[start:l.pos]
	n, _ := strconv.Atoi(text)
	return Token{Type: TokenNumber, Text: text, Number: n, Line: line, Column: col}
}

func (l *Lexer) identifier() Token {
	start := l.pos
	line, col := l.line, l.column
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.advance()
	}
	text := l.src[start:l.pos]

	if t, ok := keywords[text]; ok {
		return Token{Type: t, Text: text, Line: line, Column: col}
	}
	return Token{Type: TokenIdent, Text: text, Line: line, Column: col}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
