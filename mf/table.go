package mf

import (
	"strings"

	"github.com/Bkendle1/CS562-ESQL/plan"
	"github.com/Bkendle1/CS562-ESQL/value"
)

// Row is one record of the base relation, attribute names are lower case
type Row map[string]value.Value

func (self Row) Lookup(name string) (value.Value, bool) {
	v, ok := self[name]
	return v, ok
}

// RowSource is the base relation. Scan must visit the same rows in the same
// order every time it is called, it is called once per pass. In parallel mode
// it is called concurrently.
type RowSource interface {
	Scan(fn func(Row) error) error
}

// MFRow is one group of the MF table, the grouping tuple in the order of the
// grouping attributes and one state per aggregate slot
type MFRow struct {
	Group  []value.Value
	States []State
}

// Table is the MF table, rows are kept in insertion order. Lookup is backed by
// a hash index of the grouping tuple.
type Table struct {
	schema      *plan.Schema
	rows        []*MFRow
	index       map[string]int
	Diagnostics []Diagnostic
}

func newTable(schema *plan.Schema) *Table {
	return &Table{
		schema: schema,
		rows:   []*MFRow{},
		index:  make(map[string]int),
	}
}

func (self *Table) Schema() *plan.Schema { return self.schema }
func (self *Table) Len() int             { return len(self.rows) }
func (self *Table) Row(i int) *MFRow     { return self.rows[i] }

// Lookup searches the row whose grouping tuple equals the tuple, the second
// result tells whether it is found
func (self *Table) Lookup(tuple []value.Value) (int, bool) {
	idx, ok := self.index[value.TupleKey(tuple)]
	return idx, ok
}

// lookupScan is the reference lookup, comparing attribute by attribute in the
// declared order and stopping at the first row that matches
func (self *Table) lookupScan(tuple []value.Value) (int, bool) {
	for idx, row := range self.rows {
		match := true
		for i, v := range tuple {
			if !row.Group[i].Equal(v) {
				match = false
				break
			}
		}
		if match {
			return idx, true
		}
	}
	return -1, false
}

// insert appends a new row with every state at its identity element
func (self *Table) insert(tuple []value.Value) int {
	states := make([]State, len(self.schema.Aggregates))
	for _, a := range self.schema.Aggregates {
		states[a.Slot] = newState(a.Func)
	}
	group := make([]value.Value, len(tuple))
	copy(group, tuple)

	idx := len(self.rows)
	self.rows = append(self.rows, &MFRow{
		Group:  group,
		States: states,
	})
	self.index[value.TupleKey(group)] = idx
	return idx
}

// TupleString renders a grouping tuple for messages, ie (Sam, NY)
func TupleString(tuple []value.Value) string {
	l := []string{}
	for _, v := range tuple {
		l = append(l, v.String())
	}
	return "(" + strings.Join(l, ", ") + ")"
}
