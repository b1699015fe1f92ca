package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a number literal. It may still fail to parse as a number.
	tokenNum
	// tokenIdent is a variable, constant, or function name.
	tokenIdent
	// tokenOp is an operator, + - * or /.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is the function argument separator, a comma.
	tokenSep
	// tokenUnknown is any other single character.
	tokenUnknown
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenUnknown:
		return "Unknown"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be binary or unary
// operators.
const Operators = "+-*/"

// lexer scans tokens from a string on demand. The cursor is a byte offset
// into src; col is the 1-based rune column of the cursor.
type lexer struct {
	src string
	cur int
	col int
}

// reset moves the lexer to the start of src.
func (l *lexer) reset(src string) {
	l.src = src
	l.cur = 0
	l.col = 1
}

// readRune reads the rune at the cursor and advances past it.
func (l *lexer) readRune() (rune, bool) {
	if l.cur >= len(l.src) {
		return 0, false
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += sz
	l.col++
	return r, true
}

// peekRune returns the rune at the cursor without advancing.
func (l *lexer) peekRune() (rune, bool) {
	if l.cur >= len(l.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r, true
}

// next scans the next token from the input. Once the input is exhausted, every
// call returns an EOF token positioned just past the last rune.
func (l *lexer) next() lexToken {
	for {
		r, ok := l.peekRune()
		if !ok {
			return lexToken{kind: tokenEOF, pos: l.col}
		}
		if !unicode.IsSpace(r) {
			break
		}
		l.readRune()
	}
	start, pos := l.cur, l.col
	r, _ := l.readRune()
	tok := lexToken{pos: pos}
	switch {
	case isDigit(r), r == '.':
		l.scanWhile(func(r rune) bool { return isDigit(r) || r == '.' })
		tok.kind = tokenNum
	case unicode.IsLetter(r):
		l.scanWhile(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
		tok.kind = tokenIdent
	case strings.ContainsRune(Operators, r):
		tok.kind = tokenOp
	case r == '(':
		tok.kind = tokenOpen
	case r == ')':
		tok.kind = tokenClose
	case r == ',':
		tok.kind = tokenSep
	default:
		tok.kind = tokenUnknown
	}
	tok.text = l.src[start:l.cur]
	return tok
}

// scanWhile advances the cursor over runes for which ok returns true.
func (l *lexer) scanWhile(ok func(rune) bool) {
	for {
		r, more := l.peekRune()
		if !more || !ok(r) {
			return
		}
		l.readRune()
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
