// Package lexer turns a source file into a stream of token.Token
// values, one GetToken call at a time.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wtflang/wtfc/token"
)

const commentChar = '#'

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// Lexer reads bytes from a seekable file and produces tokens on
// demand. It keeps a single byte of lookahead (lastChar), the byte
// offset of that lookahead character, and the 0-indexed line/column
// at which it sits.
type Lexer struct {
	file *os.File
	in   *bufio.Reader

	lastChar byte // lookahead byte; meaningless once atEOF
	atEOF    bool

	offset int
	line   int
	column int

	filename string
}

// New constructs a Lexer that has not yet been pointed at a file. Call
// SetInputFile before GetToken.
func New() *Lexer {
	return &Lexer{lastChar: ' '}
}

// SetInputFile opens path, seeks to initialOffset, and resets the
// lexer's position bookkeeping so subsequent GetToken calls read from
// there.
func (l *Lexer) SetInputFile(path string, initialOffset int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("File not found: %s", path)
	}
	if initialOffset > 0 {
		if _, err := f.Seek(initialOffset, io.SeekStart); err != nil {
			f.Close()
			return fmt.Errorf("File not found: %s", path)
		}
	}
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	l.in = bufio.NewReader(f)
	l.filename = path
	l.atEOF = false
	l.offset = int(initialOffset)
	l.line = 0
	l.column = 0
	if b, err := l.in.ReadByte(); err != nil {
		l.lastChar = 0
		l.atEOF = true
	} else {
		l.lastChar = b
	}
	return nil
}

// Filename returns the path of the file currently being lexed.
func (l *Lexer) Filename() string { return l.filename }

// Offset returns the byte offset of the lookahead character, used to
// resume a parent driver's lexer after a nested import returns.
func (l *Lexer) Offset() int { return l.offset }

// Position returns the 0-indexed line and column at which the
// lookahead character sits — the position the error reporter should
// blame for the token about to be produced.
func (l *Lexer) Position() (line, column int) {
	return l.line, l.column
}

// Close releases the underlying file handle.
func (l *Lexer) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// advance consumes the byte in lastChar and reads the next one into
// its place, updating offset/line/column.
func (l *Lexer) advance() {
	if l.lastChar == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.offset++

	b, err := l.in.ReadByte()
	if err != nil {
		l.lastChar = 0
		l.atEOF = true
		return
	}
	l.lastChar = b
}

// GetToken skips whitespace and returns the next token.Token, or an
// error describing a malformed literal.
func (l *Lexer) GetToken() (token.Token, error) {
	for isSpace(l.lastChar) && !l.atEOF {
		l.advance()
	}
	if l.atEOF {
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}, nil
	}

	line, column := l.line, l.column

	if isLetter(l.lastChar) {
		var sb strings.Builder
		for isAlnum(l.lastChar) && !l.atEOF {
			sb.WriteByte(l.lastChar)
			l.advance()
		}
		name := sb.String()
		if kw, ok := token.Keywords[name]; ok {
			return token.Token{Type: kw, Line: line, Column: column}, nil
		}
		return token.Token{Type: token.IDENT, Ident: name, Line: line, Column: column}, nil
	}

	if isDigit(l.lastChar) || l.lastChar == '.' {
		var sb strings.Builder
		for (isDigit(l.lastChar) || l.lastChar == '.') && !l.atEOF {
			sb.WriteByte(l.lastChar)
			l.advance()
		}
		lit := sb.String()
		// A literal with more than one '.' (e.g. "1.2.3") is rejected
		// by strconv.ParseFloat and reported as an invalid number; no
		// prefix of it is used as a value.
		value, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return token.Token{}, fmt.Errorf("invalid number '%s', line %d, column %d", lit, line, column)
		}
		return token.Token{Type: token.NUMBER, Num: value, Line: line, Column: column}, nil
	}

	if l.lastChar == commentChar {
		for l.lastChar != '\n' && !l.atEOF {
			l.advance()
		}
		return l.GetToken()
	}

	if l.lastChar == '\'' {
		l.advance()
		var sb strings.Builder
		for l.lastChar != '\'' && !l.atEOF {
			sb.WriteByte(l.lastChar)
			l.advance()
		}
		if l.atEOF {
			return token.Token{}, fmt.Errorf("unterminated string literal, line %d, column %d", line, column)
		}
		l.advance() // consume closing quote
		return token.Token{Type: token.STRING, Ident: sb.String(), Line: line, Column: column}, nil
	}

	// A single byte token: punctuation, or an operator, built-in or
	// user-defined. The parser, not the lexer, decides what a byte
	// means in context.
	b := l.lastChar
	l.advance()
	return token.Token{Type: token.BYTE, Byte: b, Line: line, Column: column}, nil
}
