package expr

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	// Literal
	TkTrue = iota
	TkFalse
	TkInt
	TkReal
	TkNull
	TkStr
	TkId

	// Keywords
	TkIn
	TkBetween
	TkLike
	TkAs

	// Punctuation
	TkComma
	TkColon
	TkQuestion
	TkLPar
	TkRPar

	TkAdd
	TkSub
	TkMul
	TkDiv
	TkMod

	TkLt
	TkLe
	TkGt
	TkGe
	TkEq
	TkNe

	TkAnd
	TkOr
	TkNot

	TkError
	TkEof

	// Special hidden tokens that will never showsup during lexing, used inside
	// of parser for desugar purpose
	tkNotBetween
	tkNotIn
	tkNotLike
)

// NoQual marks an identifier without grouping variable qualifier
const NoQual = -1

type Lexeme struct {
	Text string
	Int  int64
	Real float64
	Qual int // grouping variable qualifier of an identifier, ie 1.quant
}

type Lexer struct {
	Source string
	Cursor int
	Token  int
	Lexeme Lexeme

	tokenStart int // position of the current token's first character
}

func (self *Lexer) nextRune() (rune, int) {
	if self.Cursor >= len(self.Source) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(self.Source[self.Cursor:])
}

func (self *Lexer) runeAt(pos int) rune {
	if pos >= len(self.Source) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(self.Source[pos:])
	return r
}

func (self *Lexer) nextRune2() rune {
	return self.runeAt(self.Cursor + 1)
}

func (self *Lexer) yield(tk int, sz int) int {
	self.Token = tk
	self.Cursor += sz
	return tk
}

func (self *Lexer) eof() int {
	self.Token = TkEof
	return TkEof
}

func (self *Lexer) dinfo() string {
	return fmt.Sprintf("around position(%d)", self.Cursor+1)
}

func (self *Lexer) err(msg string) int {
	self.Lexeme.Text = fmt.Sprintf("%s: %s", self.dinfo(), msg)
	self.Token = TkError
	return TkError
}

func (self *Lexer) errE(err error) int {
	return self.err(err.Error())
}

func (self *Lexer) errUtf8() int {
	return self.err("invalid utf8 character")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (self *Lexer) isIdChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (self *Lexer) isIdLeadingChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func (self *Lexer) digitRun(pos int) int {
	for pos < len(self.Source) && isDigit(rune(self.Source[pos])) {
		pos++
	}
	return pos
}

func (self *Lexer) isExponent(pos int) bool {
	r := self.runeAt(pos)
	if r != 'e' && r != 'E' {
		return false
	}
	n := self.runeAt(pos + 1)
	if n == '+' || n == '-' {
		n = self.runeAt(pos + 2)
	}
	return isDigit(n)
}

// Number lexing. A digit run can also start an identifier, since aggregate
// output names are written as 1_sum_quant, or be a grouping variable qualifier
// as in 1.quant.
//
// 1) digits followed by '_' or letter, identifier
// 2) digits followed by '.' and an identifier leading char, qualified id
// 3) otherwise an integer or a real number, '.' and exponent means real
func (self *Lexer) lexNum() int {
	start := self.Cursor
	end := self.digitRun(start)

	next := self.runeAt(end)
	if (next == '_' || unicode.IsLetter(next)) && !self.isExponent(end) {
		return self.lexId()
	}
	if next == '.' && self.isIdLeadingChar(self.runeAt(end+1)) {
		qual, err := strconv.Atoi(self.Source[start:end])
		if err != nil {
			return self.errE(err)
		}
		self.Cursor = end + 1
		if tk := self.lexId(); tk != TkId {
			return tk
		}
		self.Lexeme.Qual = qual
		return TkId
	}

	isReal := false
	if next == '.' {
		isReal = true
		end = self.digitRun(end + 1)
	}
	if self.isExponent(end) {
		isReal = true
		end++
		if r := self.runeAt(end); r == '+' || r == '-' {
			end++
		}
		end = self.digitRun(end)
	}

	text := self.Source[start:end]
	self.Cursor = end

	if isReal {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return self.errE(err)
		}
		self.Lexeme.Real = f
		self.Token = TkReal
		return TkReal
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return self.errE(err)
	}
	self.Lexeme.Int = i
	self.Token = TkInt
	return TkInt
}

func (self *Lexer) lexStr(quote rune) int {
	buf := &bytes.Buffer{}
	self.Cursor++
	self.Lexeme.Text = ""

	for {
		c, sz := self.nextRune()

		if c == utf8.RuneError {
			if sz == 0 {
				return self.err("string literal is not closed by quote properly")
			} else {
				return self.errUtf8()
			}
		}

		if c == quote {
			// SQL style escape of the quote, ie 'it''s'
			if self.nextRune2() == quote {
				buf.WriteRune(quote)
				self.Cursor += 2 * sz
				continue
			}
			self.Cursor += sz
			break
		}

		if c == '\\' {
			cc := self.nextRune2()
			switch cc {
			case 't':
				buf.WriteRune('\t')
				break
			case 'n':
				buf.WriteRune('\n')
				break
			case 'r':
				buf.WriteRune('\r')
				break
			case '\'', '"', '\\':
				buf.WriteRune(cc)
				break
			default:
				return self.err("unknown escape sequences inside of string literal")
			}
			self.Cursor += 2
			continue
		}

		buf.WriteRune(c)
		self.Cursor += sz
	}

	self.Lexeme.Text = buf.String()
	self.Token = TkStr
	return self.Token
}

func (self *Lexer) lexId() int {
	start := self.Cursor
	buf := &bytes.Buffer{}

	for {
		c, sz := self.nextRune()
		if c == utf8.RuneError || !self.isIdChar(c) {
			break
		}
		self.Cursor += sz
		buf.WriteRune(unicode.ToLower(c))
	}

	if self.Cursor == start {
		return self.err("invalid leading character of identifier")
	}

	self.Lexeme.Text = buf.String()
	self.Lexeme.Qual = NoQual
	self.Token = TkId
	return TkId
}

func (self *Lexer) keyword(id string) (int, bool) {
	switch id {
	case "and":
		return TkAnd, true
	case "or":
		return TkOr, true
	case "not":
		return TkNot, true
	case "in":
		return TkIn, true
	case "between":
		return TkBetween, true
	case "like":
		return TkLike, true
	case "as":
		return TkAs, true
	case "true":
		return TkTrue, true
	case "false":
		return TkFalse, true
	case "null", "nil":
		return TkNull, true
	default:
		return -1, false
	}
}

func (self *Lexer) lexKeywordOrId() int {
	if tk := self.lexId(); tk != TkId {
		return tk
	}
	if tk, ok := self.keyword(self.Lexeme.Text); ok {
		self.Token = tk
		return tk
	}
	return TkId
}

func (self *Lexer) Next() int {
	if self.Token == TkEof {
		return TkEof
	}
	return self.next()
}

func (self *Lexer) next() int {
	for {
		self.tokenStart = self.Cursor
		c, sz := self.nextRune()
		if c == utf8.RuneError {
			if sz == 0 {
				return self.eof()
			} else {
				return self.errUtf8()
			}
		}

		switch c {
		case ',':
			return self.yield(TkComma, 1)
		case ':':
			return self.yield(TkColon, 1)
		case '?':
			return self.yield(TkQuestion, 1)
		case '(':
			return self.yield(TkLPar, 1)
		case ')':
			return self.yield(TkRPar, 1)

		case '+':
			return self.yield(TkAdd, 1)
		case '-':
			return self.yield(TkSub, 1)
		case '*':
			return self.yield(TkMul, 1)
		case '/':
			return self.yield(TkDiv, 1)
		case '%':
			return self.yield(TkMod, 1)

		case '&':
			if self.nextRune2() == '&' {
				return self.yield(TkAnd, 2)
			}
			return self.err("are you missing '&' for and operator?")

		case '|':
			if self.nextRune2() == '|' {
				return self.yield(TkOr, 2)
			}
			return self.err("are you missing '|' for or operator?")

		case '=':
			if self.nextRune2() == '=' {
				return self.yield(TkEq, 2)
			} else {
				return self.yield(TkEq, 1)
			}

		case '>':
			if self.nextRune2() == '=' {
				return self.yield(TkGe, 2)
			} else {
				return self.yield(TkGt, 1)
			}

		case '<':
			if self.nextRune2() == '=' {
				return self.yield(TkLe, 2)
			} else if self.nextRune2() == '>' {
				return self.yield(TkNe, 2)
			} else {
				return self.yield(TkLt, 1)
			}

		case '!':
			if self.nextRune2() == '=' {
				return self.yield(TkNe, 2)
			} else {
				return self.yield(TkNot, 1)
			}

		case ' ', '\r', '\t', '\n', '\b', '\v':
			self.Cursor++
			break

		case '\'', '"':
			return self.lexStr(c)

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return self.lexNum()

		default:
			if !self.isIdLeadingChar(c) {
				return self.err(fmt.Sprintf("unexpected character %q", c))
			}
			return self.lexKeywordOrId()
		}
	}
}

func newLexer(source string) *Lexer {
	return &Lexer{
		Source: source,
		Cursor: 0,
		Token:  TkError,
	}
}
