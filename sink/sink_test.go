package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bkendle1/CS562-ESQL/mf"
	"github.com/Bkendle1/CS562-ESQL/value"
)

func result() *mf.Result {
	return &mf.Result{
		Columns: []string{"cust", "total", "avg"},
		Rows: [][]value.Value{
			{value.NewStr("Sam"), value.NewInt(30), value.NewReal(7.5)},
			{value.NewStr("Dan"), value.NewInt(5), value.NewNull()},
		},
	}
}

func TestTable(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	assert.True(New(FormatTable, false).Write(buf, result()) == nil)
	assert.Equal(
		strings.Join([]string{
			" cust | total | avg",
			"------+-------+------",
			" Sam  |    30 |  7.5",
			" Dan  |     5 | NULL",
			"(2 rows)",
			"",
		}, "\n"),
		buf.String(),
	)
}

func TestTableEmpty(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	r := &mf.Result{Columns: []string{"cust"}, Rows: [][]value.Value{}}
	assert.True((&Table{}).Write(buf, r) == nil)
	assert.Equal(" cust\n------\n(0 rows)\n", buf.String())
}

func TestTableColor(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	r := &mf.Result{
		Columns: []string{"cust"},
		Rows:    [][]value.Value{{value.NewStr("Sam")}},
	}
	assert.True((&Table{Color: true}).Write(buf, r) == nil)
	out := buf.String()
	assert.True(strings.Contains(out, "\x1b["))
	assert.True(strings.HasSuffix(out, " Sam\n(1 row)\n"))
}

func TestCSV(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	assert.True(New(FormatCSV, false).Write(buf, result()) == nil)
	assert.Equal("cust,total,avg\nSam,30,7.5\nDan,5,\n", buf.String())
}

func TestJSON(t *testing.T) {
	assert := assert.New(t)
	{
		buf := &bytes.Buffer{}
		assert.True(New(FormatJSON, false).Write(buf, result()) == nil)
		assert.Equal(
			"[\n"+
				"  {\"cust\": \"Sam\", \"total\": 30, \"avg\": 7.5},\n"+
				"  {\"cust\": \"Dan\", \"total\": 5, \"avg\": null}\n"+
				"]\n",
			buf.String(),
		)
	}
	{
		buf := &bytes.Buffer{}
		assert.True((&JSON{}).Write(buf, &mf.Result{Columns: []string{"a"}}) == nil)
		assert.Equal("[]\n", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	assert := assert.New(t)
	{
		f, err := ParseFormat("JSON")
		assert.True(err == nil)
		assert.Equal(FormatJSON, f)
	}
	{
		f, err := ParseFormat("")
		assert.True(err == nil)
		assert.Equal(FormatTable, f)
	}
	{
		_, err := ParseFormat("xml")
		assert.True(err != nil)
	}
}
