package plan

// Semantic checking, just check obvious bugs of the phi expressions
//
// ----------------------------------------------------------------------------
//
// [1] grouping variable predicate sigma_i is a function of one base row. A
//     qualified reference j.attr is only allowed when j == i
//
// [2] having and select list are evaluated against the finalized MF row,
//     qualified reference makes no sense there
//
// [3] function call must be a known builtin with the expected arity
//
// [4] select list output names must be unique
//
// Unknown attribute names are not checked here. The base relation is only
// known at scan time, and the select list is checked by the projector.
//
// ----------------------------------------------------------------------------

import (
	"fmt"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

func (self *builder) semaExpr(
	field string,
	index int,
	e expr.Expr,
	qual int,
) error {
	var err error
	expr.Walk(e, func(x expr.Expr) bool {
		if err != nil {
			return false
		}
		switch x.Type() {
		case expr.ExprRef:
			ref := x.(*expr.Ref)
			if ref.Qualified() && ref.Qual != qual {
				name := fmt.Sprintf("%d.%s", ref.Qual, ref.Id)
				if qual == expr.NoQual {
					err = self.err(field, index, name, "qualified reference is not allowed here")
				} else {
					err = self.err(
						field,
						index,
						name,
						"qualifier does not match grouping variable %d",
						qual,
					)
				}
			}
			break

		case expr.ExprCall:
			call := x.(*expr.Call)
			if !expr.IsBuiltin(call.Name) {
				err = self.err(field, index, call.Name, "unknown function")
			} else if len(call.Parameters) != 1 {
				err = self.err(field, index, call.Name, "function expects 1 argument")
			}
			break

		default:
			break
		}
		return err == nil
	})
	return err
}

func (self *builder) semaCheck() error {
	for i, v := range self.schema.Vars {
		if i == 0 {
			continue
		}
		if err := self.semaExpr("sigma", i-1, v.Predicate, i); err != nil {
			return err
		}
	}

	if err := self.semaExpr("G", -1, self.schema.Having, expr.NoQual); err != nil {
		return err
	}

	names := make(map[string]bool)
	for idx := range self.schema.Select {
		item := &self.schema.Select[idx]
		if err := self.semaExpr("S", idx, item.Value, expr.NoQual); err != nil {
			return err
		}
		name := item.Name()
		if names[name] {
			return self.err("S", idx, name, "duplicated output column")
		}
		names[name] = true
	}
	return nil
}
