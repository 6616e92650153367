package cg

import (
	"fmt"

	"github.com/Bkendle1/CS562-ESQL/phi"
	"github.com/Bkendle1/CS562-ESQL/plan"
)

// Aggregation Generation.
//
// every aggregate slot owns a few global arrays keyed by the group key:
//
//   agg_cnt_<slot>  count, for COUNT and AVG
//   agg_sum_<slot>  running sum, for SUM and AVG
//   agg_val_<slot>  running min/max
//   agg_def_<slot>  set once min/max saw a value
//
// COUNT counts every qualifying row, the others skip null.

func (self *queryCodeGen) varAgg(kind string, a *plan.Agg) string {
	return fmt.Sprintf("agg_%s_%d[key]", kind, a.Slot)
}

func (self *queryCodeGen) genAggFold(w *awkWriter, a *plan.Agg) {
	if a.Func == phi.FuncCount {
		w.Line("%[cnt]++;", awkWriterCtx{
			"cnt": self.varAgg("cnt", a),
		})
		return
	}

	v := w.LocalN("v", a.Slot)
	w.Assign(v, self.field(a.Attr), nil)

	ctx := awkWriterCtx{
		"v":   v,
		"cnt": self.varAgg("cnt", a),
		"sum": self.varAgg("sum", a),
		"val": self.varAgg("val", a),
		"def": fmt.Sprintf("agg_def_%d", a.Slot),
	}

	switch a.Func {
	case phi.FuncSum:
		w.Chunk(
			`
if (%[v] != "") {
  %[sum] += %[v];
}
`,
			ctx,
		)
		break

	case phi.FuncAvg:
		w.Chunk(
			`
if (%[v] != "") {
  %[sum] += %[v];
  %[cnt]++;
}
`,
			ctx,
		)
		break

	case phi.FuncMin:
		w.Chunk(
			`
if (%[v] != "" && (!(key in %[def]) || %[v] < %[val])) {
  %[val] = %[v];
  %[def][key] = 1;
}
`,
			ctx,
		)
		break

	case phi.FuncMax:
		w.Chunk(
			`
if (%[v] != "" && (!(key in %[def]) || %[v] > %[val])) {
  %[val] = %[v];
  %[def][key] = 1;
}
`,
			ctx,
		)
		break

	default:
		break
	}
}

// final value of the aggregate of the group in key
func (self *queryCodeGen) aggFinal(a *plan.Agg) string {
	switch a.Func {
	case phi.FuncCount:
		return fmt.Sprintf("(%s + 0)", self.varAgg("cnt", a))
	case phi.FuncSum:
		return fmt.Sprintf("(%s + 0)", self.varAgg("sum", a))
	case phi.FuncAvg:
		return fmt.Sprintf(
			"(%s > 0 ? %s / %s : \"\")",
			self.varAgg("cnt", a),
			self.varAgg("sum", a),
			self.varAgg("cnt", a),
		)
	default:
		return fmt.Sprintf(
			"((key in agg_def_%d) ? %s : \"\")",
			a.Slot,
			self.varAgg("val", a),
		)
	}
}
