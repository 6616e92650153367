package plan

import (
	"fmt"

	"github.com/Bkendle1/CS562-ESQL/expr"
	"github.com/Bkendle1/CS562-ESQL/phi"
)

// Agg is one aggregate column of the MF table. Slot is the index of its state
// inside of every MF row, which is also its position in Schema.Aggregates
type Agg struct {
	Slot  int
	Owner int
	Func  int
	Attr  string
	Name  string
}

func (self *Agg) FuncName() string { return phi.FuncName(self.Func) }
func (self *Agg) IsStar() bool     { return self.Attr == phi.StarAttr }

// GroupingVar describes the scan of one grouping variable, index 0 is the
// standard grouping and has no predicate
type GroupingVar struct {
	Index     int
	Predicate expr.Expr // sigma_i, nil for index 0
	Slots     []int     // aggregate slots folded by this scan
}

// Schema is the descriptor of an empty MF table, together with everything the
// engine and the code generator need to evaluate the query. It is immutable
// once built.
type Schema struct {
	N                  int
	GroupingAttributes []string       // V, order preserved
	Aggregates         []*Agg         // F, ordered by owner, ties by declaration order
	Vars               []*GroupingVar // 0..n
	Select             []expr.SelectItem
	Having             expr.Expr

	columns []string
	column  map[string]int
}

// Columns of the finalized MF row, grouping attributes first and then every
// aggregate output name
func (self *Schema) Columns() []string {
	return self.columns
}

func (self *Schema) ColumnIndex(name string) (int, bool) {
	idx, ok := self.column[name]
	return idx, ok
}

func (self *Schema) IsGroupingAttribute(name string) bool {
	idx, ok := self.column[name]
	return ok && idx < len(self.GroupingAttributes)
}

func (self *Schema) Var(i int) *GroupingVar {
	return self.Vars[i]
}

// Owned returns the aggregates folded during scan i
func (self *Schema) Owned(i int) []*Agg {
	out := []*Agg{}
	for _, slot := range self.Vars[i].Slots {
		out = append(out, self.Aggregates[slot])
	}
	return out
}

func (self *Schema) HasHaving() bool { return self.Having != nil }

// SelectAll tells whether the select list projects every column
func (self *Schema) SelectAll() bool { return len(self.Select) == 0 }

// SourceAttributes lists the base relation attributes the query reads, in
// first reference order: grouping attributes, aggregate sources and then the
// attributes referenced by the grouping variable predicates
func (self *Schema) SourceAttributes() []string {
	seen := make(map[string]bool)
	out := []string{}
	add := func(x string) {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}

	for _, v := range self.GroupingAttributes {
		add(v)
	}
	for _, a := range self.Aggregates {
		if !a.IsStar() {
			add(a.Attr)
		}
	}
	for _, v := range self.Vars {
		for _, ref := range expr.Refs(v.Predicate) {
			add(ref.Id)
		}
	}
	return out
}

func (self *Schema) String() string {
	return fmt.Sprintf(
		"schema(n=%d, grouping=%v, aggregates=%d)",
		self.N,
		self.GroupingAttributes,
		len(self.Aggregates),
	)
}
