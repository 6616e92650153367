package expr

import (
	"errors"
	"github.com/Bkendle1/CS562-ESQL/value"
	"github.com/stretchr/testify/assert"
	"testing"
)

func testEnv() MapEnv {
	return MapEnv{
		"cust":  value.NewStr("Sam"),
		"qty":   value.NewInt(10),
		"price": value.NewReal(2.5),
		"note":  value.NewNull(),
	}
}

func doEval(x *Evaluator, src string, assert *assert.Assertions) (value.Value, error) {
	e, err := Parse(src)
	assert.True(err == nil)
	return x.Eval(e, testEnv())
}

func doTestEval(expect value.Value, src string, assert *assert.Assertions) {
	v, err := doEval(&Evaluator{}, src, assert)
	assert.True(err == nil)
	assert.Equal(expect, v, src)
}

func TestEvalArith(t *testing.T) {
	assert := assert.New(t)
	doTestEval(value.NewInt(11), "qty + 1", assert)
	doTestEval(value.NewInt(-10), "-qty", assert)
	doTestEval(value.NewReal(25), "qty * price", assert)
	doTestEval(value.NewInt(5), "qty / 2", assert)
	doTestEval(value.NewNull(), "qty / 0", assert)
	doTestEval(value.NewNull(), "qty + note", assert)
	{
		_, err := doEval(&Evaluator{}, "cust + 1", assert)
		assert.True(err != nil)
	}
}

func TestEvalCompare(t *testing.T) {
	assert := assert.New(t)
	doTestEval(value.NewBool(true), "qty > 8", assert)
	doTestEval(value.NewBool(false), "qty < 8", assert)
	doTestEval(value.NewBool(true), "qty = 10.0", assert)
	doTestEval(value.NewBool(true), "cust = 'Sam'", assert)
	doTestEval(value.NewBool(true), "cust <> 'Dan'", assert)
	doTestEval(value.NewNull(), "note = 1", assert)
	doTestEval(value.NewNull(), "note = null", assert)
	doTestEval(value.NewBool(true), "qty between 5 and 10", assert)
	doTestEval(value.NewBool(true), "qty in (1, 10)", assert)
	doTestEval(value.NewBool(false), "qty not in (1, 10)", assert)
}

func TestEvalLogic(t *testing.T) {
	assert := assert.New(t)
	doTestEval(value.NewBool(false), "note > 1 and false", assert)
	doTestEval(value.NewBool(true), "note > 1 or true", assert)
	doTestEval(value.NewNull(), "note > 1 and true", assert)
	doTestEval(value.NewNull(), "note > 1 or false", assert)
	doTestEval(value.NewNull(), "not note > 1", assert)
	doTestEval(value.NewBool(true), "not qty > 20", assert)
	doTestEval(value.NewBool(true), "qty > 1 && cust = 'Sam'", assert)
}

func TestEvalLikeAndCall(t *testing.T) {
	assert := assert.New(t)
	doTestEval(value.NewBool(true), "cust like 'S%'", assert)
	doTestEval(value.NewBool(true), "cust like '_a_'", assert)
	doTestEval(value.NewBool(false), "cust like 's%'", assert)
	doTestEval(value.NewBool(true), "cust not like 'D%'", assert)
	doTestEval(value.NewBool(true), "lower(cust) like 's%'", assert)
	doTestEval(value.NewBool(true), "cust like cust", assert)
	doTestEval(value.NewStr("SAM"), "upper(cust)", assert)
	doTestEval(value.NewInt(3), "length(cust)", assert)
	doTestEval(value.NewInt(3), "abs(-3)", assert)
	doTestEval(value.NewReal(2.5), "abs(-price)", assert)
	doTestEval(value.NewNull(), "lower(note)", assert)
	doTestEval(value.NewStr("big"), "qty > 5 ? 'big' : 'small'", assert)
	{
		_, err := doEval(&Evaluator{}, "nope(cust)", assert)
		assert.True(err != nil)
	}
	{
		_, err := doEval(&Evaluator{}, "lower(cust, cust)", assert)
		assert.True(err != nil)
	}
}

func TestEvalUnknownAttribute(t *testing.T) {
	assert := assert.New(t)
	_, err := doEval(&Evaluator{}, "quant > 1", assert)
	assert.True(err != nil)

	var uerr *UnknownAttributeError
	assert.True(errors.As(err, &uerr))
	assert.Equal("quant", uerr.Name)
}

func TestEvalQualifier(t *testing.T) {
	assert := assert.New(t)
	{
		v, err := doEval(&Evaluator{Var: 1}, "1.qty > 8 and cust = 'Sam'", assert)
		assert.True(err == nil)
		assert.Equal(value.NewBool(true), v)
	}
	{
		_, err := doEval(&Evaluator{Var: 2}, "1.qty > 8", assert)
		var qerr *QualifierError
		assert.True(errors.As(err, &qerr))
		assert.Equal(2, qerr.Var)
	}
	{
		_, err := doEval(&Evaluator{}, "1.qty > 8", assert)
		assert.True(err != nil)
	}
}

func TestEvalPredicate(t *testing.T) {
	assert := assert.New(t)
	x := &Evaluator{}
	{
		ok, err := x.Test(nil, testEnv())
		assert.True(err == nil)
		assert.True(ok)
	}
	{
		e, _ := Parse("note > 1")
		ok, err := x.Test(e, testEnv())
		assert.True(err == nil)
		assert.False(ok)
	}
	{
		e, _ := Parse("qty")
		ok, err := x.Test(e, testEnv())
		assert.True(err == nil)
		assert.True(ok)
	}
}

func TestLikeToRegex(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("^[a].*$", LikeToRegex("a%"))
	assert.Equal("^.[b]$", LikeToRegex("_b"))
	assert.Equal("^[%]$", LikeToRegex("%[%]"))
	assert.Equal("^\\^\\[$", LikeToRegex("^["))
	assert.Equal("^[1][0][0][%]$", LikeToRegex("100%[%]"))
}
