package plan

import (
	"fmt"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

// Printing the schema out, for testing, debugging, visualization purpose etc ...

func (self *Schema) Print() string {
	buf := &strings.Builder{}
	self.printGrouping(buf)
	self.printAgg(buf)
	self.printVars(buf)
	self.printHaving(buf)
	self.printOutput(buf)
	return buf.String()
}

func (self *Schema) printGrouping(
	buf *strings.Builder,
) {
	buf.WriteString("##> Grouping\n")
	buf.WriteString(fmt.Sprintf("Attributes: %s\n", strings.Join(self.GroupingAttributes, ",")))
}

func (self *Schema) printAgg(
	buf *strings.Builder,
) {
	buf.WriteString("##> Aggregation\n")
	for _, a := range self.Aggregates {
		buf.WriteString(
			fmt.Sprintf(
				"%d: %s(%s) owner=%d as %s\n",
				a.Slot,
				a.FuncName(),
				a.Attr,
				a.Owner,
				a.Name,
			),
		)
	}
}

func (self *Schema) printVars(
	buf *strings.Builder,
) {
	for _, v := range self.Vars {
		buf.WriteString(fmt.Sprintf("##> Scan %d\n", v.Index))
		buf.WriteString(fmt.Sprintf("Predicate: %s\n", expr.PrintExpr(v.Predicate)))
		slots := []string{}
		for _, s := range v.Slots {
			slots = append(slots, fmt.Sprintf("%d", s))
		}
		buf.WriteString(fmt.Sprintf("Slots: %s\n", strings.Join(slots, ",")))
	}
}

func (self *Schema) printHaving(
	buf *strings.Builder,
) {
	if self.HasHaving() {
		buf.WriteString("##> Having\n")
		buf.WriteString(fmt.Sprintf("Filter: %s\n", expr.PrintExpr(self.Having)))
	}
}

func (self *Schema) printOutput(
	buf *strings.Builder,
) {
	buf.WriteString("##> Output\n")
	if self.SelectAll() {
		buf.WriteString("Wildcard: true\n")
		return
	}
	for idx := range self.Select {
		item := &self.Select[idx]
		buf.WriteString(fmt.Sprintf("%s: %s\n", item.Name(), expr.PrintExpr(item.Value)))
	}
}
