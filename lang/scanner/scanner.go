// Package scanner implements the lexer for the boxlang scripting language: a
// hand-written state machine that turns source text into a stream of
// lang/token.Token values.
package scanner

import (
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/token"
)

// operator describes a one- or two-character operator: the first rune, the
// optional second rune, and the Kind for each case. second is 0 when the
// operator is never two characters.
type operator struct {
	first, second rune
	kind1, kind2  token.Kind
}

var operators = []operator{
	{'(', 0, token.LPAREN, 0},
	{')', 0, token.RPAREN, 0},
	{'{', 0, token.LBRACE, 0},
	{'}', 0, token.RBRACE, 0},
	{'[', 0, token.LBRACK, 0},
	{']', 0, token.RBRACK, 0},
	{'+', 0, token.ADD, 0},
	{'-', 0, token.SUB, 0},
	{'/', 0, token.DIV, 0},
	{'*', 0, token.MUL, 0},
	{'%', 0, token.MOD, 0},
	{';', 0, token.SEMI, 0},
	{',', 0, token.COMMA, 0},
	{'<', '=', token.LT, token.LTE},
	{'>', '=', token.GT, token.GTE},
	{'!', '=', token.NOT, token.NOTEQ},
	{'=', '=', token.ASSIGN, token.EQ},
}

// Scanner tokenizes a single source text, one Token at a time.
type Scanner struct {
	src []rune
	idx int
}

// New creates a Scanner over source.
func New(source string) *Scanner {
	return &Scanner{src: []rune(source)}
}

// IsEmpty reports whether the scanner has reached the end of its source.
func (s *Scanner) IsEmpty() bool { return s.idx >= len(s.src) }

func (s *Scanner) current() rune { return s.at(0) }

func (s *Scanner) at(offset int) rune {
	i := s.idx + offset
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *Scanner) drop() { s.idx++ }

func (s *Scanner) pop() rune {
	c := s.current()
	s.drop()
	return c
}

// skipWS skips whitespace and `//` line comments, returning true at EOF.
func (s *Scanner) skipWS() bool {
	for !s.IsEmpty() {
		switch {
		case isSpace(s.current()):
			s.drop()
		case s.current() == '/' && s.at(1) == '/':
			for !s.IsEmpty() && s.current() != '\n' {
				s.drop()
			}
		default:
			return s.IsEmpty()
		}
	}
	return true
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isFirstIdent(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isRestIdent(r rune) bool { return isFirstIdent(r) || isDigit(r) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (s *Scanner) nextInt() token.Token {
	start := s.idx
	for isDigit(s.current()) {
		s.pop()
	}
	return token.Token{Kind: token.INT, Lexeme: string(s.src[start:s.idx]), Span: token.Span{Start: start, End: s.idx}}
}

func (s *Scanner) nextIdent() token.Token {
	start := s.idx
	for isRestIdent(s.current()) {
		s.pop()
	}
	lit := string(s.src[start:s.idx])
	return token.Token{Kind: token.Lookup(lit), Lexeme: lit, Span: token.Span{Start: start, End: s.idx}}
}

func (s *Scanner) nextString() (token.Token, error) {
	start := s.idx
	s.drop() // opening '"'
	var sb []rune
	for !s.IsEmpty() && s.current() != '"' {
		c := s.pop()
		if c != '\\' {
			sb = append(sb, c)
			continue
		}
		escAt := s.idx - 1
		if s.IsEmpty() {
			return token.Token{}, langerr.NewUnexpectedEOF(s.idx)
		}
		switch e := s.pop(); e {
		case 'n':
			sb = append(sb, '\n')
		case 't':
			sb = append(sb, '\t')
		case 'r':
			sb = append(sb, '\r')
		case '\\':
			sb = append(sb, '\\')
		case '"':
			sb = append(sb, '"')
		default:
			return token.Token{}, langerr.NewInvalidStringEscape(e, escAt)
		}
	}
	if s.IsEmpty() {
		return token.Token{}, langerr.NewUnexpectedEOF(s.idx)
	}
	s.drop() // closing '"'
	return token.Token{Kind: token.STR, Lexeme: string(sb), Span: token.Span{Start: start, End: s.idx}}, nil
}

func (s *Scanner) nextOperator() (token.Token, error) {
	start := s.idx
	for _, op := range operators {
		if s.current() != op.first {
			continue
		}
		s.drop()
		if op.second != 0 && s.current() == op.second {
			s.drop()
			return token.Token{Kind: op.kind2, Lexeme: string(s.src[start:s.idx]), Span: token.Span{Start: start, End: s.idx}}, nil
		}
		return token.Token{Kind: op.kind1, Lexeme: string(s.src[start:s.idx]), Span: token.Span{Start: start, End: s.idx}}, nil
	}
	return token.Token{}, langerr.NewSyntaxError(token.Span{Start: s.idx, End: s.idx + 1})
}

// Next reads and returns the next Token. It returns a Kind == token.EOF
// Token (no error) when the source is exhausted.
func (s *Scanner) Next() (token.Token, error) {
	if s.skipWS() {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: s.idx, End: s.idx}}, nil
	}

	switch c := s.current(); {
	case isDigit(c):
		return s.nextInt(), nil
	case isFirstIdent(c):
		return s.nextIdent(), nil
	case c == '"':
		return s.nextString()
	default:
		return s.nextOperator()
	}
}

// All scans and returns every Token up to (but not including) EOF, or the
// first error encountered.
func (s *Scanner) All() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
