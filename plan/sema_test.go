package plan

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSemaQualifier(t *testing.T) {
	assert := assert.New(t)
	doBuild(assert, "cust", "2", "cust", "1_sum_q, 2_sum_q", "1.state = 'NY', 2.state = 'NJ' and q > 1")
	{
		cerr := doBuildFail(assert, "cust", "2", "cust", "1_sum_q", "1.state = 'NY', 1.state = 'NJ'")
		assert.Equal("sigma", cerr.Field)
		assert.Equal(1, cerr.Index)
		assert.Equal("1.state", cerr.Name)
	}
	{
		cerr := doBuildFail(assert, "cust", "1", "cust", "1_sum_q", "true", "1.q > 1")
		assert.Equal("G", cerr.Field)
	}
	{
		cerr := doBuildFail(assert, "1.cust", "0", "cust", "")
		assert.Equal("S", cerr.Field)
		assert.Equal(0, cerr.Index)
	}
}

func TestSemaCall(t *testing.T) {
	assert := assert.New(t)
	doBuild(assert, "upper(cust) as c", "1", "cust", "1_sum_q", "lower(state) like 'n%'", "abs(1_sum_q) > 1")
	{
		cerr := doBuildFail(assert, "cust", "1", "cust", "1_sum_q", "foo(state)")
		assert.Equal("sigma", cerr.Field)
		assert.Equal("foo", cerr.Name)
	}
	{
		cerr := doBuildFail(assert, "cust", "0", "cust", "", "", "length(cust, cust) > 1")
		assert.Equal("G", cerr.Field)
		assert.Equal("length", cerr.Name)
	}
}

func TestSemaSelect(t *testing.T) {
	assert := assert.New(t)
	doBuild(assert, "cust, cust as c2", "0", "cust", "")
	{
		cerr := doBuildFail(assert, "cust, total as cust", "0", "cust", "0_sum_q as total")
		assert.Equal("S", cerr.Field)
		assert.Equal(1, cerr.Index)
		assert.Equal("cust", cerr.Name)
	}
}
