package expr

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func collect(input string) ([]int, *Lexer) {
	l := newLexer(input)
	out := []int{}
	for {
		tk := l.Next()
		out = append(out, tk)
		if tk == TkEof || tk == TkError {
			break
		}
	}
	return out, l
}

func TestLexerBasic(t *testing.T) {
	assert := assert.New(t)
	{
		tk, _ := collect("( ) , ? : + - * / %")
		assert.Equal([]int{
			TkLPar, TkRPar, TkComma, TkQuestion, TkColon,
			TkAdd, TkSub, TkMul, TkDiv, TkMod, TkEof,
		}, tk)
	}
	{
		tk, _ := collect("< <= > >= = == != <> && || !")
		assert.Equal([]int{
			TkLt, TkLe, TkGt, TkGe, TkEq, TkEq, TkNe, TkNe,
			TkAnd, TkOr, TkNot, TkEof,
		}, tk)
	}
	{
		tk, _ := collect("AND or Not in BETWEEN like as TRUE false NULL")
		assert.Equal([]int{
			TkAnd, TkOr, TkNot, TkIn, TkBetween, TkLike, TkAs,
			TkTrue, TkFalse, TkNull, TkEof,
		}, tk)
	}
	{
		tk, _ := collect("a & b")
		assert.Equal(TkError, tk[len(tk)-1])
	}
	{
		tk, _ := collect("a $ b")
		assert.Equal(TkError, tk[len(tk)-1])
	}
}

func TestLexerNumber(t *testing.T) {
	assert := assert.New(t)
	{
		l := newLexer("123")
		assert.Equal(TkInt, l.Next())
		assert.Equal(int64(123), l.Lexeme.Int)
	}
	{
		l := newLexer("1.5")
		assert.Equal(TkReal, l.Next())
		assert.Equal(1.5, l.Lexeme.Real)
	}
	{
		l := newLexer("2e3")
		assert.Equal(TkReal, l.Next())
		assert.Equal(2000.0, l.Lexeme.Real)
	}
	{
		l := newLexer("1_sum_quant")
		assert.Equal(TkId, l.Next())
		assert.Equal("1_sum_quant", l.Lexeme.Text)
		assert.Equal(NoQual, l.Lexeme.Qual)
	}
	{
		l := newLexer("2.Quant")
		assert.Equal(TkId, l.Next())
		assert.Equal("quant", l.Lexeme.Text)
		assert.Equal(2, l.Lexeme.Qual)
	}
}

func TestLexerStr(t *testing.T) {
	assert := assert.New(t)
	{
		l := newLexer("'it''s'")
		assert.Equal(TkStr, l.Next())
		assert.Equal("it's", l.Lexeme.Text)
	}
	{
		l := newLexer(`"a\tb"`)
		assert.Equal(TkStr, l.Next())
		assert.Equal("a\tb", l.Lexeme.Text)
	}
	{
		l := newLexer("'abc")
		assert.Equal(TkError, l.Next())
	}
	{
		l := newLexer(`'\q'`)
		assert.Equal(TkError, l.Next())
	}
}

func TestLexerId(t *testing.T) {
	assert := assert.New(t)
	l := newLexer("Cust  _x Prod1")
	assert.Equal(TkId, l.Next())
	assert.Equal("cust", l.Lexeme.Text)
	assert.Equal(TkId, l.Next())
	assert.Equal("_x", l.Lexeme.Text)
	assert.Equal(6, l.tokenStart)
	assert.Equal(TkId, l.Next())
	assert.Equal("prod1", l.Lexeme.Text)
	assert.Equal(TkEof, l.Next())
	assert.Equal(TkEof, l.Next())
}
