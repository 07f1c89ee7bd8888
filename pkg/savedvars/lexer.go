package savedvars

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokAssign
	tokComma
	tokSemicolon
	tokMinus
	tokIdent
	tokString
	tokNumber
)

var tokenNames = map[tokenKind]string{
	tokEOF:       "end of input",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokAssign:    "'='",
	tokComma:     "','",
	tokSemicolon: "';'",
	tokMinus:     "'-'",
	tokIdent:     "identifier",
	tokString:    "string",
	tokNumber:    "number",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown token"
}

type position struct {
	line int
	col  int
}

func (p position) String() string {
	return fmt.Sprintf("line %d, column %d", p.line, p.col)
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  position
}

// lexer splits table-literal source into tokens. It understands exactly the
// lexical subset SavedVariables files use: punctuation, names, quoted and
// long-bracket strings, numbers and comments.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() position {
	return position{line: l.line, col: l.col}
}

func (l *lexer) errorf(p position, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSyntax, p, fmt.Sprintf(format, args...))
}

func (l *lexer) peekByte(ahead int) byte {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.off++
	}
}

// skipSpace skips whitespace and comments.
func (l *lexer) skipSpace() error {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			l.advance(1)
		case c == '-' && l.peekByte(1) == '-':
			start := l.pos()
			l.advance(2)
			if l.peekByte(0) == '[' {
				if level, ok := l.longBracketLevel(); ok {
					if _, err := l.readLongBracket(level, start); err != nil {
						return err
					}
					continue
				}
			}
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
		default:
			return nil
		}
	}
	return nil
}

// longBracketLevel reports whether a long bracket opens at the current
// offset and returns the number of '=' signs in it.
func (l *lexer) longBracketLevel() (int, bool) {
	if l.peekByte(0) != '[' {
		return 0, false
	}
	level := 0
	for l.peekByte(1+level) == '=' {
		level++
	}
	if l.peekByte(1+level) != '[' {
		return 0, false
	}
	return level, true
}

func (l *lexer) readLongBracket(level int, start position) (string, error) {
	l.advance(level + 2)
	// A newline immediately after the opening bracket is skipped.
	if l.peekByte(0) == '\r' {
		l.advance(1)
	}
	if l.peekByte(0) == '\n' {
		l.advance(1)
	}
	closing := "]" + strings.Repeat("=", level) + "]"
	idx := strings.Index(l.src[l.off:], closing)
	if idx < 0 {
		return "", l.errorf(start, "unfinished long string or comment")
	}
	text := l.src[l.off : l.off+idx]
	l.advance(idx + len(closing))
	return text, nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.off]
	switch c {
	case '{':
		l.advance(1)
		return token{kind: tokLBrace, pos: start}, nil
	case '}':
		l.advance(1)
		return token{kind: tokRBrace, pos: start}, nil
	case ']':
		l.advance(1)
		return token{kind: tokRBracket, pos: start}, nil
	case '=':
		l.advance(1)
		return token{kind: tokAssign, pos: start}, nil
	case ',':
		l.advance(1)
		return token{kind: tokComma, pos: start}, nil
	case ';':
		l.advance(1)
		return token{kind: tokSemicolon, pos: start}, nil
	case '-':
		l.advance(1)
		return token{kind: tokMinus, pos: start}, nil
	case '[':
		if level, ok := l.longBracketLevel(); ok {
			text, err := l.readLongBracket(level, start)
			if err != nil {
				return token{}, err
			}
			return token{kind: tokString, text: text, pos: start}, nil
		}
		l.advance(1)
		return token{kind: tokLBracket, pos: start}, nil
	case '"', '\'':
		return l.readString(c, start)
	}

	if isDigit(c) || (c == '.' && isDigit(l.peekByte(1))) {
		return l.readNumber(start)
	}
	if isNameStart(c) {
		begin := l.off
		for l.off < len(l.src) && isNameChar(l.src[l.off]) {
			l.advance(1)
		}
		return token{kind: tokIdent, text: l.src[begin:l.off], pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return token{}, l.errorf(start, "unexpected character %q", r)
}

func (l *lexer) readString(quote byte, start position) (token, error) {
	l.advance(1)
	var sb strings.Builder
	for {
		if l.off >= len(l.src) {
			return token{}, l.errorf(start, "unfinished string")
		}
		c := l.src[l.off]
		switch {
		case c == quote:
			l.advance(1)
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		case c == '\n' || c == '\r':
			return token{}, l.errorf(l.pos(), "unfinished string")
		case c == '\\':
			if err := l.readEscape(&sb); err != nil {
				return token{}, err
			}
		default:
			sb.WriteByte(c)
			l.advance(1)
		}
	}
}

func (l *lexer) readEscape(sb *strings.Builder) error {
	escPos := l.pos()
	l.advance(1)
	if l.off >= len(l.src) {
		return l.errorf(escPos, "unfinished escape sequence")
	}
	c := l.src[l.off]
	simple := map[byte]byte{
		'n': '\n', 't': '\t', 'r': '\r', 'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
		'\\': '\\', '"': '"', '\'': '\'', '\n': '\n',
	}
	if out, ok := simple[c]; ok {
		sb.WriteByte(out)
		l.advance(1)
		return nil
	}

	switch {
	case c == 'x':
		l.advance(1)
		if l.off+2 > len(l.src) {
			return l.errorf(escPos, "hexadecimal digit expected")
		}
		v, err := strconv.ParseUint(l.src[l.off:l.off+2], 16, 8)
		if err != nil {
			return l.errorf(escPos, "hexadecimal digit expected")
		}
		sb.WriteByte(byte(v))
		l.advance(2)
	case c == 'z':
		l.advance(1)
		for l.off < len(l.src) && isSpace(l.src[l.off]) {
			l.advance(1)
		}
	case c == 'u':
		l.advance(1)
		if l.peekByte(0) != '{' {
			return l.errorf(escPos, "missing '{' in \\u{xxxx}")
		}
		end := strings.IndexByte(l.src[l.off:], '}')
		if end < 2 {
			return l.errorf(escPos, "malformed \\u{xxxx} escape")
		}
		v, err := strconv.ParseUint(l.src[l.off+1:l.off+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return l.errorf(escPos, "UTF-8 value too large")
		}
		sb.WriteRune(rune(v))
		l.advance(end + 1)
	case isDigit(c):
		n := 0
		digits := 0
		for digits < 3 && l.off < len(l.src) && isDigit(l.src[l.off]) {
			n = n*10 + int(l.src[l.off]-'0')
			digits++
			l.advance(1)
		}
		if n > 255 {
			return l.errorf(escPos, "decimal escape too large")
		}
		sb.WriteByte(byte(n))
	default:
		return l.errorf(escPos, "invalid escape sequence '\\%c'", c)
	}
	return nil
}

func (l *lexer) readNumber(start position) (token, error) {
	begin := l.off
	if l.peekByte(0) == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.advance(2)
		for l.off < len(l.src) && isHexDigit(l.src[l.off]) {
			l.advance(1)
		}
		text := l.src[begin:l.off]
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return token{}, l.errorf(start, "malformed number near '%s'", text)
		}
		return token{kind: tokNumber, text: text, num: float64(v), pos: start}, nil
	}

	for l.off < len(l.src) {
		c := l.src[l.off]
		if isDigit(c) || c == '.' {
			l.advance(1)
			continue
		}
		if (c == 'e' || c == 'E') && l.off > begin {
			l.advance(1)
			if s := l.peekByte(0); s == '+' || s == '-' {
				l.advance(1)
			}
			continue
		}
		break
	}
	// A number running straight into a name character is malformed (e.g. 3x).
	if l.off < len(l.src) && isNameStart(l.src[l.off]) {
		return token{}, l.errorf(start, "malformed number near '%s'", l.src[begin:l.off+1])
	}

	text := l.src[begin:l.off]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, l.errorf(start, "malformed number near '%s'", text)
	}
	return token{kind: tokNumber, text: text, num: v, pos: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}
