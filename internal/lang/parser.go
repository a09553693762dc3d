package lang

import (
	"fmt"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// Parser consumes a token stream and emits G-ISA instructions.
type Parser struct {
	tokens []Token
	pos    int
	instrs []isa.Instruction
	name   string
}

// NewParser creates a parser over a token stream. The stream must be
// EOF-terminated, as produced by Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, name: "Unnamed"}
}

// Parse translates the stream into (program name, instructions).
// Statements the parser cannot place are skipped one token at a time;
// missing required tokens inside a recognized statement fail with a
// SyntaxError.
func (p *Parser) Parse() (string, []isa.Instruction, error) {
	if p.check(TokenProgram) {
		if err := p.parseHeader(); err != nil {
			return "", nil, err
		}
	}

	for !p.atEnd() {
		if err := p.parseStatement(); err != nil {
			return "", nil, err
		}
	}

	return p.name, p.instrs, nil
}

// ParseSource is the convenience entry point: lex and parse in one call.
func ParseSource(src string) (string, []isa.Instruction, error) {
	return NewParser(NewLexer(src).Tokenize()).Parse()
}

func (p *Parser) parseHeader() error {
	p.advance() // program
	name, err := p.expect(TokenIdent, "expected program name")
	if err != nil {
		return err
	}
	p.name = name.Text
	if _, err := p.expect(TokenColon, "expected ':' after program name"); err != nil {
		return err
	}
	return nil
}

func (p *Parser) parseStatement() error {
	switch {
	case p.check(TokenSoliton):
		return p.parseSolitonDecl()
	case p.check(TokenEntangle):
		return p.parseEntangle()
	case p.check(TokenIdent):
		return p.parseIdentStatement()
	case p.check(TokenEOF):
		return nil
	default:
		// Unrecognized leading token: skip, matching the lexer's
		// permissiveness.
		p.advance()
		return nil
	}
}

// parseSolitonDecl handles `soliton <name> = <0|1|H>;`.
func (p *Parser) parseSolitonDecl() error {
	p.advance() // soliton
	name, err := p.expect(TokenIdent, "expected soliton name")
	if err != nil {
		return err
	}

	p.emit(isa.Alloc(name.Text))

	if p.match(TokenAssign) {
		switch {
		case p.check(TokenNumber):
			tok := p.advance()
			w, err := isa.Write(name.Text, tok.Number)
			if err != nil {
				return &SyntaxError{Line: tok.Line, Message: fmt.Sprintf("invalid soliton value %d", tok.Number)}
			}
			p.emit(w)
		case p.check(TokenEdge):
			p.advance()
			p.emit(isa.WriteEdge(name.Text))
		}
	}

	p.match(TokenSemicolon)
	return nil
}

// parseEntangle handles `entangle(<a>, <b>);`.
func (p *Parser) parseEntangle() error {
	p.advance() // entangle
	if _, err := p.expect(TokenLParen, "expected '('"); err != nil {
		return err
	}
	control, err := p.expect(TokenIdent, "expected control soliton")
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenComma, "expected ','"); err != nil {
		return err
	}
	target, err := p.expect(TokenIdent, "expected target soliton")
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenRParen, "expected ')'"); err != nil {
		return err
	}
	p.match(TokenSemicolon)

	p.emit(isa.CNOT(control.Text, target.Text))
	return nil
}

// parseIdentStatement handles `<id>.roll();` and `<id> = measure(<x>);`.
func (p *Parser) parseIdentStatement() error {
	name := p.advance()

	switch {
	case p.check(TokenDot):
		p.advance()
		if !p.check(TokenRoll) {
			// Unknown method: skip the dot; the stray tokens fall
			// through the statement loop.
			return nil
		}
		p.advance() // roll
		if _, err := p.expect(TokenLParen, "expected '('"); err != nil {
			return err
		}
		if _, err := p.expect(TokenRParen, "expected ')'"); err != nil {
			return err
		}
		p.match(TokenSemicolon)
		p.emit(isa.Roll(name.Text))

	case p.check(TokenAssign):
		p.advance()
		if !p.check(TokenMeasure) {
			return nil
		}
		p.advance() // measure
		if _, err := p.expect(TokenLParen, "expected '('"); err != nil {
			return err
		}
		target, err := p.expect(TokenIdent, "expected measurement target")
		if err != nil {
			return err
		}
		if _, err := p.expect(TokenRParen, "expected ')'"); err != nil {
			return err
		}
		p.match(TokenSemicolon)
		p.emit(isa.MeasureInto(target.Text, name.Text))
	}

	return nil
}

func (p *Parser) emit(in isa.Instruction) {
	p.instrs = append(p.instrs, in)
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t TokenType) bool {
	return p.tokens[p.pos].Type == t
}

func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType, message string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, &SyntaxError{Line: p.tokens[p.pos].Line, Message: message}
}

func (p *Parser) atEnd() bool {
	return p.tokens[p.pos].Type == TokenEOF
}
