package cg

import (
	"fmt"
)

// having is evaluated on the finalized row, a null result drops the row
func (self *queryCodeGen) genHaving(w *awkWriter) error {
	if !self.schema.HasHaving() {
		return nil
	}
	cond, err := genExpr(self.schema.Having, self.rowRef)
	if err != nil {
		return fmt.Errorf("codegen(having): %w", err)
	}
	w.Open("if (!(%[cond]))", awkWriterCtx{
		"cond": cond,
	})
	w.Line("continue;", nil)
	w.Close()
	return nil
}
