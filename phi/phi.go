// Package phi holds the operand set of a Multi-Feature query, the six phi
// operands S, n, V, F, sigma and G, together with the loaders that produce it
// from a text file, a YAML file or an interactive prompt.
package phi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

const (
	FuncSum = iota
	FuncCount
	FuncAvg
	FuncMin
	FuncMax
)

// StarAttr is the source attribute of count(*)
const StarAttr = "*"

func FuncName(f int) string {
	switch f {
	case FuncSum:
		return "sum"
	case FuncCount:
		return "count"
	case FuncAvg:
		return "avg"
	case FuncMin:
		return "min"
	case FuncMax:
		return "max"
	default:
		return fmt.Sprintf("func(%d)", f)
	}
}

func ParseFunc(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "sum":
		return FuncSum, true
	case "count":
		return FuncCount, true
	case "avg":
		return FuncAvg, true
	case "min":
		return FuncMin, true
	case "max":
		return FuncMax, true
	default:
		return -1, false
	}
}

// AggregateSpec is one aggregate of F. Owner is the grouping variable whose
// scan folds it, 0 being the standard grouping.
type AggregateSpec struct {
	Owner int
	Func  int
	Attr  string
	Name  string
}

// DefaultName is the conventional column name, ie 1_sum_quant
func (self *AggregateSpec) DefaultName() string {
	attr := self.Attr
	if attr == StarAttr {
		attr = "all"
	}
	return fmt.Sprintf("%d_%s_%s", self.Owner, FuncName(self.Func), attr)
}

func (self *AggregateSpec) String() string {
	return fmt.Sprintf("%d_%s_%s as %s", self.Owner, FuncName(self.Func), self.Attr, self.Name)
}

// ParseAggregate parses an aggregate token of the form <owner>_<func>_<attr>
// followed by an optional "as <name>". The attribute may contain '_'.
func ParseAggregate(token string) (AggregateSpec, error) {
	fields := strings.Fields(strings.ToLower(token))
	name := ""

	switch len(fields) {
	case 1:
		break
	case 3:
		if fields[1] != "as" {
			return AggregateSpec{}, fmt.Errorf("aggregate %q: expect 'as' before output name", token)
		}
		name = fields[2]
		break
	default:
		return AggregateSpec{}, fmt.Errorf("aggregate %q: malformed", token)
	}

	parts := strings.SplitN(fields[0], "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return AggregateSpec{}, fmt.Errorf(
			"aggregate %q: expect <owner>_<func>_<attribute>",
			token,
		)
	}

	owner, err := strconv.Atoi(parts[0])
	if err != nil {
		return AggregateSpec{}, fmt.Errorf("aggregate %q: invalid owner index: %s", token, parts[0])
	}
	fn, ok := ParseFunc(parts[1])
	if !ok {
		return AggregateSpec{}, fmt.Errorf("aggregate %q: unknown function %s", token, parts[1])
	}

	agg := AggregateSpec{
		Owner: owner,
		Func:  fn,
		Attr:  parts[2],
		Name:  name,
	}
	if agg.Name == "" {
		agg.Name = agg.DefaultName()
	}
	return agg, nil
}

// Spec is the parsed phi operand set. It is pure data, validation of the cross
// field constraints is done by plan.Build.
type Spec struct {
	Select             []expr.SelectItem // S, empty means every column
	N                  int               // n
	GroupingAttributes []string          // V
	Aggregates         []AggregateSpec   // F
	Predicates         []expr.Expr       // sigma_1 .. sigma_n
	Having             expr.Expr         // G, nil if absent
}

// Predicate returns sigma_i, index starts from 1
func (self *Spec) Predicate(i int) expr.Expr {
	if i < 1 || i > len(self.Predicates) {
		return nil
	}
	return self.Predicates[i-1]
}

func (self *Spec) String() string {
	b := &strings.Builder{}
	sel := []string{}
	for _, s := range self.Select {
		sel = append(sel, s.Name())
	}
	agg := []string{}
	for _, a := range self.Aggregates {
		agg = append(agg, a.String())
	}
	pred := []string{}
	for _, p := range self.Predicates {
		pred = append(pred, expr.PrintExpr(p))
	}
	b.WriteString(fmt.Sprintf("S: %s\n", strings.Join(sel, ", ")))
	b.WriteString(fmt.Sprintf("n: %d\n", self.N))
	b.WriteString(fmt.Sprintf("V: %s\n", strings.Join(self.GroupingAttributes, ", ")))
	b.WriteString(fmt.Sprintf("F: %s\n", strings.Join(agg, ", ")))
	b.WriteString(fmt.Sprintf("sigma: %s\n", strings.Join(pred, ", ")))
	b.WriteString(fmt.Sprintf("G: %s\n", expr.PrintExpr(self.Having)))
	return b.String()
}
