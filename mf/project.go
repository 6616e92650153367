package mf

import (
	"github.com/Bkendle1/CS562-ESQL/expr"
	"github.com/Bkendle1/CS562-ESQL/plan"
	"github.com/Bkendle1/CS562-ESQL/value"
)

// Result is the projected output, rows are in MF table insertion order
type Result struct {
	Columns     []string
	Rows        [][]value.Value
	Diagnostics []Diagnostic
}

// finalized MF row, the env of having and select list
type finalRow struct {
	schema *plan.Schema
	values []value.Value
}

func (self *finalRow) Lookup(name string) (value.Value, bool) {
	idx, ok := self.schema.ColumnIndex(name)
	if !ok {
		return value.NewNull(), false
	}
	return self.values[idx], true
}

func finalize(schema *plan.Schema, row *MFRow) *finalRow {
	values := make([]value.Value, 0, len(row.Group)+len(row.States))
	values = append(values, row.Group...)
	for idx := range row.States {
		values = append(values, row.States[idx].Final())
	}
	return &finalRow{
		schema: schema,
		values: values,
	}
}

// checkSelect makes sure every name of the select list is a column of the MF
// table
func checkSelect(schema *plan.Schema) error {
	for idx := range schema.Select {
		item := &schema.Select[idx]
		for _, ref := range expr.Refs(item.Value) {
			if _, ok := schema.ColumnIndex(ref.Id); !ok {
				return &ProjectionError{
					Name: ref.Id,
				}
			}
		}
	}
	return nil
}

// checkHaving makes sure the having predicate only names columns of the MF
// table, also when the table is empty or a reference is never evaluated
func checkHaving(schema *plan.Schema) error {
	for _, ref := range expr.Refs(schema.Having) {
		if _, ok := schema.ColumnIndex(ref.Id); !ok {
			return &EvaluationError{
				Pass:      PassHaving,
				Attribute: ref.Id,
				Err:       &expr.UnknownAttributeError{Name: ref.Id},
			}
		}
	}
	return nil
}

// Columns returns the output column names of the schema
func Columns(schema *plan.Schema) []string {
	if schema.SelectAll() {
		out := make([]string, len(schema.Columns()))
		copy(out, schema.Columns())
		return out
	}
	out := []string{}
	for idx := range schema.Select {
		out = append(out, schema.Select[idx].Name())
	}
	return out
}

// Project finalizes the MF table, filters it by the having predicate and
// evaluates the select list. Nothing is returned on failure.
func Project(t *Table) (*Result, error) {
	schema := t.Schema()
	if err := checkHaving(schema); err != nil {
		return nil, err
	}
	if err := checkSelect(schema); err != nil {
		return nil, err
	}

	eval := &expr.Evaluator{}
	out := &Result{
		Columns:     Columns(schema),
		Rows:        [][]value.Value{},
		Diagnostics: t.Diagnostics,
	}

	for i := 0; i < t.Len(); i++ {
		row := finalize(schema, t.Row(i))

		ok, err := eval.Test(schema.Having, row)
		if err != nil {
			return nil, predicateError(PassHaving, err)
		}
		if !ok {
			continue
		}

		if schema.SelectAll() {
			out.Rows = append(out.Rows, row.values)
			continue
		}

		tuple := make([]value.Value, 0, len(schema.Select))
		for idx := range schema.Select {
			item := &schema.Select[idx]
			v, err := eval.Eval(item.Value, row)
			if err != nil {
				return nil, &ProjectionError{
					Name: item.Name(),
					Err:  err,
				}
			}
			tuple = append(tuple, v)
		}
		out.Rows = append(out.Rows, tuple)
	}
	return out, nil
}
