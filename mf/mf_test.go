package mf

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Bkendle1/CS562-ESQL/phi"
	"github.com/Bkendle1/CS562-ESQL/plan"
	"github.com/Bkendle1/CS562-ESQL/value"
)

type rows []Row

func (self rows) Scan(fn func(Row) error) error {
	for _, r := range self {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func sale(cust string, qty int64) Row {
	return Row{
		"cust": value.NewStr(cust),
		"qty":  value.NewInt(qty),
	}
}

func sales() rows {
	return rows{
		sale("Sam", 10),
		sale("Sam", 20),
		sale("Dan", 5),
	}
}

// bigger relation, cust/prod/state/quant
func report() rows {
	out := rows{}
	custs := []string{"Sam", "Dan", "Eve", "Bob"}
	prods := []string{"apple", "pear"}
	states := []string{"NY", "NJ", "CT"}
	for i := 0; i < 60; i++ {
		out = append(out, Row{
			"cust":  value.NewStr(custs[(i*7)%len(custs)]),
			"prod":  value.NewStr(prods[(i/3)%len(prods)]),
			"state": value.NewStr(states[i%len(states)]),
			"quant": value.NewInt(int64((i*37)%100 + 1)),
		})
	}
	return out
}

func doSpec(operands ...string) *phi.Spec {
	spec, err := phi.FromOperands(operands)
	if err != nil {
		panic(err.Error())
	}
	return spec
}

func doRun(assert *assert.Assertions, src RowSource, opts []Option, operands ...string) *Result {
	r, err := Run(doSpec(operands...), src, opts...)
	if err != nil {
		print(fmt.Sprintf("%s\n", err))
	}
	assert.True(err == nil)
	return r
}

func str(x string) value.Value { return value.NewStr(x) }
func num(x int64) value.Value  { return value.NewInt(x) }

func TestExampleTotal(t *testing.T) {
	assert := assert.New(t)
	r := doRun(assert, sales(), nil, "cust, total", "0", "cust", "0_sum_qty as total")
	assert.Equal([]string{"cust", "total"}, r.Columns)
	assert.Equal([][]value.Value{
		{str("Sam"), num(30)},
		{str("Dan"), num(5)},
	}, r.Rows)
	assert.Equal(0, len(r.Diagnostics))
}

func TestExampleGroupingVariable(t *testing.T) {
	assert := assert.New(t)
	r := doRun(
		assert,
		sales(),
		nil,
		"cust, big_count",
		"1",
		"cust",
		"1_count_qty as big_count",
		"qty > 8",
	)
	assert.Equal([][]value.Value{
		{str("Sam"), num(2)},
		{str("Dan"), num(0)},
	}, r.Rows)
}

func TestExampleHaving(t *testing.T) {
	assert := assert.New(t)
	r := doRun(assert, sales(), nil, "cust, total", "0", "cust", "0_sum_qty as total", "", "total > 10")
	assert.Equal([][]value.Value{
		{str("Sam"), num(30)},
	}, r.Rows)
}

func TestSelectExpression(t *testing.T) {
	assert := assert.New(t)
	r := doRun(
		assert,
		sales(),
		nil,
		"upper(cust) as who, total * 2 as double, total",
		"0",
		"cust",
		"0_sum_qty as total",
	)
	assert.Equal([]string{"who", "double", "total"}, r.Columns)
	assert.Equal([][]value.Value{
		{str("SAM"), num(60), num(30)},
		{str("DAN"), num(10), num(5)},
	}, r.Rows)
}

func TestSelectAll(t *testing.T) {
	assert := assert.New(t)
	r := doRun(assert, sales(), nil, "*", "1", "cust", "1_max_qty, 0_count_*", "qty < 15")
	assert.Equal([]string{"cust", "0_count_all", "1_max_qty"}, r.Columns)
	assert.Equal([][]value.Value{
		{str("Sam"), num(2), num(10)},
		{str("Dan"), num(1), num(5)},
	}, r.Rows)
}

func TestDeterminism(t *testing.T) {
	assert := assert.New(t)
	operands := []string{
		"cust, prod, 1_sum_quant, 2_avg_quant, 3_max_quant",
		"3",
		"cust, prod",
		"1_sum_quant, 2_avg_quant, 3_max_quant",
		"state = 'NY', state = 'NJ', state = 'CT' and quant > 50",
		"1_sum_quant > 0 or 3_max_quant > 0",
	}
	a := doRun(assert, report(), nil, operands...)
	b := doRun(assert, report(), nil, operands...)
	assert.Equal(a, b)
	assert.Equal(fmt.Sprintf("%v", a.Rows), fmt.Sprintf("%v", b.Rows))
}

func TestDegenerateGroupBy(t *testing.T) {
	assert := assert.New(t)
	r := doRun(
		assert,
		report(),
		nil,
		"cust, prod, s, c, lo, hi",
		"0",
		"cust, prod",
		"0_sum_quant as s, 0_count_quant as c, 0_min_quant as lo, 0_max_quant as hi",
	)

	// plain hash group by
	type agg struct{ s, c, lo, hi int64 }
	order := []string{}
	groups := make(map[string]*agg)
	for _, row := range report() {
		k := row["cust"].Str + "/" + row["prod"].Str
		q := row["quant"].Int
		g, ok := groups[k]
		if !ok {
			g = &agg{lo: q, hi: q}
			groups[k] = g
			order = append(order, k)
		}
		g.s += q
		g.c++
		if q < g.lo {
			g.lo = q
		}
		if q > g.hi {
			g.hi = q
		}
	}

	assert.Equal(len(order), len(r.Rows))
	for idx, k := range order {
		g := groups[k]
		row := r.Rows[idx]
		assert.Equal(k, row[0].Str+"/"+row[1].Str)
		assert.Equal([]value.Value{num(g.s), num(g.c), num(g.lo), num(g.hi)}, row[2:])
	}
}

func TestUniquenessAndOrder(t *testing.T) {
	assert := assert.New(t)
	src := rows{
		{"k": num(1), "v": num(1)},
		{"k": value.NewReal(1.0), "v": num(1)},
		{"k": value.NewNull(), "v": num(1)},
		{"k": str("1"), "v": num(1)},
		{"k": value.NewNull(), "v": num(1)},
		{"k": num(2), "v": num(1)},
	}
	schema, err := plan.Build(doSpec("k, c", "0", "k", "0_count_v as c"))
	assert.True(err == nil)

	tab, err := NewEngine(schema).Evaluate(src)
	assert.True(err == nil)
	assert.Equal(4, tab.Len())

	seen := make(map[string]bool)
	for i := 0; i < tab.Len(); i++ {
		k := value.TupleKey(tab.Row(i).Group)
		assert.False(seen[k])
		seen[k] = true
	}

	// first seen representative and first seen order
	assert.Equal(num(1), tab.Row(0).Group[0])
	assert.Equal(value.NewNull(), tab.Row(1).Group[0])
	assert.Equal(str("1"), tab.Row(2).Group[0])
	assert.Equal(num(2), tab.Row(3).Group[0])
	assert.Equal(num(2), tab.Row(0).States[0].Final())
	assert.Equal(num(2), tab.Row(1).States[0].Final())
}

func TestLookupEquivalence(t *testing.T) {
	assert := assert.New(t)
	schema, err := plan.Build(doSpec("*", "0", "cust, prod", ""))
	assert.True(err == nil)

	tab, err := NewEngine(schema).Evaluate(report())
	assert.True(err == nil)
	for _, row := range report() {
		tuple := []value.Value{row["cust"], row["prod"]}
		i0, ok0 := tab.Lookup(tuple)
		i1, ok1 := tab.lookupScan(tuple)
		assert.True(ok0)
		assert.True(ok1)
		assert.Equal(i0, i1)
	}
	{
		tuple := []value.Value{str("Zed"), str("apple")}
		_, ok0 := tab.Lookup(tuple)
		i1, ok1 := tab.lookupScan(tuple)
		assert.False(ok0)
		assert.False(ok1)
		assert.Equal(-1, i1)
	}

	operands := []string{
		"*", "2", "cust, prod", "1_sum_quant, 2_count_*", "state = 'NY', quant > 40", "",
	}
	a := doRun(assert, report(), nil, operands...)
	b := doRun(assert, report(), []Option{WithLinearLookup(true)}, operands...)
	assert.Equal(a, b)

	// int and real keys beyond the exact float range
	src := rows{
		{"k": num(9007199254740993), "v": num(1)},
		{"k": value.NewReal(9007199254740992), "v": num(1)},
		{"k": num(9007199254740992), "v": num(1)},
	}
	{
		a := doRun(assert, src, nil, "k, c", "1", "k", "1_count_v as c", "v = 1")
		b := doRun(assert, src, []Option{WithLinearLookup(true)}, "k, c", "1", "k", "1_count_v as c", "v = 1")
		assert.Equal(a, b)
		assert.Equal([][]value.Value{
			{num(9007199254740993), num(1)},
			{value.NewReal(9007199254740992), num(2)},
		}, a.Rows)
	}
}

func TestSumOverflow(t *testing.T) {
	assert := assert.New(t)
	src := rows{
		{"k": str("a"), "v": num(math.MaxInt64)},
		{"k": str("a"), "v": num(1)},
	}
	r := doRun(assert, src, nil, "k, s", "0", "k", "0_sum_v as s")
	assert.Equal([][]value.Value{
		{str("a"), value.NewReal(float64(math.MaxInt64) + 1)},
	}, r.Rows)
}

func TestParallelScans(t *testing.T) {
	assert := assert.New(t)
	operands := []string{
		"*",
		"4",
		"cust",
		"1_sum_quant, 2_avg_quant, 3_min_quant, 4_count_*, 0_max_quant",
		"state = 'NY', state = 'NJ', prod = 'pear', quant between 10 and 20",
		"",
	}
	a := doRun(assert, report(), nil, operands...)
	for i := 0; i < 8; i++ {
		b := doRun(assert, report(), []Option{WithParallelScans(true)}, operands...)
		assert.Equal(a, b)
	}
}

func TestAvgNull(t *testing.T) {
	assert := assert.New(t)
	r := doRun(
		assert,
		sales(),
		nil,
		"cust, a, lo, hi, s, c",
		"1",
		"cust",
		"1_avg_qty as a, 1_min_qty as lo, 1_max_qty as hi, 1_sum_qty as s, 1_count_qty as c",
		"qty > 100",
	)
	for _, row := range r.Rows {
		assert.Equal([]value.Value{
			value.NewNull(), value.NewNull(), value.NewNull(), num(0), num(0),
		}, row[1:])
	}

	r = doRun(assert, sales(), nil, "cust, a", "0", "cust", "0_avg_qty as a")
	assert.Equal(value.NewReal(15), r.Rows[0][1])
	assert.Equal(value.NewReal(5), r.Rows[1][1])
}

func TestNullFold(t *testing.T) {
	assert := assert.New(t)
	src := sales()
	src = append(src, Row{"cust": str("Sam"), "qty": value.NewNull()})
	r := doRun(
		assert,
		src,
		nil,
		"cust, s, c, a, lo",
		"0",
		"cust",
		"0_sum_qty as s, 0_count_qty as c, 0_avg_qty as a, 0_min_qty as lo",
	)
	assert.Equal([]value.Value{str("Sam"), num(30), num(3), value.NewReal(15), num(10)}, r.Rows[0])
}

func TestEmptySource(t *testing.T) {
	assert := assert.New(t)
	r := doRun(assert, rows{}, nil, "cust, total", "1", "cust", "0_sum_qty as total", "qty > 1")
	assert.Equal([]string{"cust", "total"}, r.Columns)
	assert.Equal(0, len(r.Rows))
}

func TestEvaluationError(t *testing.T) {
	assert := assert.New(t)
	{
		_, err := Run(doSpec("cust", "1", "cust", "1_sum_qty", "quant > 1"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(1, eerr.Pass)
		assert.Equal("quant", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust", "0", "cust", "0_sum_cust"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(0, eerr.Pass)
		assert.Equal("cust", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust", "0", "cust", "0_max_price"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal("price", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("region", "0", "region", ""), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal("region", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust", "0", "cust", "0_sum_qty as total", "", "totl > 1"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(PassHaving, eerr.Pass)
		assert.Equal("totl", eerr.Attribute)
		assert.Equal("stage(having): attribute \"totl\": unknown attribute \"totl\"", err.Error())
	}
	{
		operands := []string{"cust", "3", "cust", "3_sum_qty", "true, qty > 1, nope = 1", ""}
		for _, parallel := range []bool{false, true} {
			_, err := Run(doSpec(operands...), sales(), WithParallelScans(parallel))
			var eerr *EvaluationError
			assert.True(errors.As(err, &eerr))
			assert.Equal(3, eerr.Pass)
			assert.Equal("nope", eerr.Attribute)
		}
	}
}

func TestUnknownAttributeShortCircuit(t *testing.T) {
	assert := assert.New(t)
	{
		// the right side of and is never evaluated
		_, err := Run(doSpec("cust", "0", "cust", "0_sum_qty as total", "", "total > 100 and bogus = 1"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(PassHaving, eerr.Pass)
		assert.Equal("bogus", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust", "0", "cust", "0_sum_qty as total", "", "bogus = 1"), rows{})
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(PassHaving, eerr.Pass)
		assert.Equal("bogus", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust, c", "1", "cust", "1_count_qty as c", "qty > 100 and nosuch = 1"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal(1, eerr.Pass)
		assert.Equal("nosuch", eerr.Attribute)
	}
	{
		_, err := Run(doSpec("cust, c", "1", "cust", "1_count_qty as c", "qty > 1 or nosuch = 1"), sales())
		var eerr *EvaluationError
		assert.True(errors.As(err, &eerr))
		assert.Equal("nosuch", eerr.Attribute)
	}
}

func TestProjectionError(t *testing.T) {
	assert := assert.New(t)
	{
		_, err := Run(doSpec("cust, qty", "0", "cust", "0_sum_qty as total"), sales())
		var perr *ProjectionError
		assert.True(errors.As(err, &perr))
		assert.Equal("qty", perr.Name)
	}
	{
		// raised before any output, even with no row at all
		_, err := Run(doSpec("cust, qty", "0", "cust", "0_sum_qty as total"), rows{})
		var perr *ProjectionError
		assert.True(errors.As(err, &perr))
	}
	{
		_, err := Run(doSpec("cust + 1 as x", "0", "cust", ""), sales())
		var perr *ProjectionError
		assert.True(errors.As(err, &perr))
		assert.Equal("x", perr.Name)
	}
}

func TestConfigurationErrorBeforeScan(t *testing.T) {
	assert := assert.New(t)
	scanned := false
	src := scanFunc(func(fn func(Row) error) error {
		scanned = true
		return nil
	})
	_, err := Run(doSpec("cust", "0", "cust", "1_sum_qty"), src)
	var cerr *plan.ConfigurationError
	assert.True(errors.As(err, &cerr))
	assert.False(scanned)
}

type scanFunc func(fn func(Row) error) error

func (self scanFunc) Scan(fn func(Row) error) error { return self(fn) }

func TestDiagnostic(t *testing.T) {
	assert := assert.New(t)
	core, logs := observer.New(zapcore.WarnLevel)

	// the relation grows between scan 0 and scan 1
	count := 0
	src := scanFunc(func(fn func(Row) error) error {
		count++
		l := sales()
		if count > 1 {
			l = append(l, sale("Eve", 50))
		}
		return l.Scan(fn)
	})

	r, err := Run(
		doSpec("cust, c", "1", "cust", "1_count_* as c", "qty > 8"),
		src,
		WithLogger(zap.New(core)),
	)
	assert.True(err == nil)
	assert.Equal([][]value.Value{
		{str("Sam"), num(2)},
		{str("Dan"), num(0)},
	}, r.Rows)
	assert.Equal([]Diagnostic{
		{Pass: 1, Key: "(Eve)", Msg: "is not registered by scan 0, row skipped"},
	}, r.Diagnostics)
	assert.Equal(1, logs.Len())
	assert.Equal("row skipped", logs.All()[0].Message)
}

func TestStateFold(t *testing.T) {
	assert := assert.New(t)
	{
		s := newState(phi.FuncSum)
		assert.True(s.Fold(num(1)) == nil)
		assert.True(s.Fold(value.NewReal(0.5)) == nil)
		assert.Equal(value.NewReal(1.5), s.Final())
		assert.True(s.Fold(str("x")) != nil)
	}
	{
		s := newState(phi.FuncMin)
		assert.Equal(value.NewNull(), s.Final())
		assert.True(s.Fold(str("pear")) == nil)
		assert.True(s.Fold(str("apple")) == nil)
		assert.Equal(str("apple"), s.Final())
	}
	{
		s := newState(phi.FuncMax)
		assert.True(s.Fold(num(3)) == nil)
		assert.True(s.Fold(value.NewNull()) == nil)
		assert.True(s.Fold(num(7)) == nil)
		assert.Equal(num(7), s.Final())
	}
	{
		s := newState(phi.FuncAvg)
		assert.Equal(value.NewNull(), s.Final())
		assert.True(s.Fold(str("x")) != nil)
	}
	{
		s := newState(phi.FuncCount)
		assert.True(s.Fold(value.NewNull()) == nil)
		assert.Equal(num(1), s.Final())
	}
}
