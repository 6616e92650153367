package cg

import (
	"fmt"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

// Output generation
// ----------------------------------------------------------------------------
// output() walks the groups in scan 0 order, materializes the finalized row
// into the local array *row*, filters it by having and prints the select
// list, nulls are printed as NULL.

func (self *queryCodeGen) rowRef(ref *expr.Ref) (string, error) {
	if ref.Qualified() {
		return "", &expr.QualifierError{Ref: ref}
	}
	if _, ok := self.schema.ColumnIndex(ref.Id); !ok {
		return "", &expr.UnknownAttributeError{Name: ref.Id}
	}
	return fmt.Sprintf("row[%s]", awkString(ref.Id)), nil
}

func (self *queryCodeGen) outputColumns() []string {
	if self.schema.SelectAll() {
		return self.schema.Columns()
	}
	out := []string{}
	for idx := range self.schema.Select {
		out = append(out, self.schema.Select[idx].Name())
	}
	return out
}

func (self *queryCodeGen) outputValues() ([]string, error) {
	out := []string{}
	if self.schema.SelectAll() {
		for _, c := range self.schema.Columns() {
			out = append(out, fmt.Sprintf("row[%s]", awkString(c)))
		}
		return out, nil
	}
	for idx := range self.schema.Select {
		item := &self.schema.Select[idx]
		x, err := genExpr(item.Value, self.rowRef)
		if err != nil {
			return nil, fmt.Errorf("codegen(output %s): %w", item.Name(), err)
		}
		out = append(out, x)
	}
	return out, nil
}

func (self *queryCodeGen) genOutput() (string, error) {
	w := newAwkWriter("output")
	k := w.Local("k")
	key := w.Local("key")
	g := w.Local("g")
	row := w.Local("row")

	sep := awkString(self.separator)
	if self.header {
		names := []string{}
		for _, c := range self.outputColumns() {
			names = append(names, awkString(c))
		}
		if len(names) == 0 {
			names = append(names, "\"\"")
		}
		w.Line("print "+strings.Join(names, " "+sep+" ")+";", nil)
	}

	w.Open(fmt.Sprintf("for (%s = 1; %s <= ngroup; %s++)", k, k, k), nil)
	w.Assign(key, fmt.Sprintf("order[%s]", k), nil)
	w.Line(fmt.Sprintf("split(%s, %s, SUBSEP);", key, g), nil)

	for idx, name := range self.schema.GroupingAttributes {
		w.Assign(
			fmt.Sprintf("%s[%s]", row, awkString(name)),
			fmt.Sprintf("%s[%d]", g, idx+1),
			nil,
		)
	}
	for _, a := range self.schema.Aggregates {
		w.Assign(
			fmt.Sprintf("%s[%s]", row, awkString(a.Name)),
			self.aggFinal(a),
			nil,
		)
	}

	if err := self.genHaving(w); err != nil {
		return "", err
	}

	values, err := self.outputValues()
	if err != nil {
		return "", err
	}
	shown := []string{}
	for _, x := range values {
		shown = append(shown, "show("+x+")")
	}
	if len(shown) == 0 {
		shown = append(shown, "\"\"")
	}
	w.Line("print "+strings.Join(shown, " "+sep+" ")+";", nil)
	w.Close()
	return w.Flush(), nil
}
