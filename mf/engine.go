package mf

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Bkendle1/CS562-ESQL/expr"
	"github.com/Bkendle1/CS562-ESQL/plan"
	"github.com/Bkendle1/CS562-ESQL/value"
)

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithParallelScans runs the scans of grouping variables 1..n concurrently
// once scan 0 is done. Each scan folds its own aggregate slots only.
func WithParallelScans(on bool) Option {
	return func(e *Engine) {
		e.parallel = on
	}
}

// WithLinearLookup switches the MF table lookup to the attribute by attribute
// linear search
func WithLinearLookup(on bool) Option {
	return func(e *Engine) {
		e.linear = on
	}
}

// Engine evaluates a schema over a row source with n+1 scans
type Engine struct {
	schema   *plan.Schema
	log      *zap.Logger
	parallel bool
	linear   bool
}

func NewEngine(schema *plan.Schema, opts ...Option) *Engine {
	e := &Engine{
		schema: schema,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// per scan bookkeeping
type scanStat struct {
	rows        int
	matched     int
	diagnostics []Diagnostic
}

func (self *Engine) lookup(t *Table, tuple []value.Value) (int, bool) {
	if self.linear {
		return t.lookupScan(tuple)
	}
	return t.Lookup(tuple)
}

func (self *Engine) project(pass int, row Row, tuple []value.Value) error {
	for i, name := range self.schema.GroupingAttributes {
		v, ok := row.Lookup(name)
		if !ok {
			return &EvaluationError{
				Pass:      pass,
				Attribute: name,
				Err:       fmt.Errorf("grouping attribute is missing from row"),
			}
		}
		tuple[i] = v
	}
	return nil
}

func (self *Engine) fold(pass int, row Row, mfRow *MFRow) error {
	for _, a := range self.schema.Owned(pass) {
		v := value.NewNull()
		if !a.IsStar() {
			x, ok := row.Lookup(a.Attr)
			if !ok {
				return &EvaluationError{
					Pass:      pass,
					Attribute: a.Attr,
					Err:       fmt.Errorf("source attribute of %s is missing from row", a.Name),
				}
			}
			v = x
		}
		if err := mfRow.States[a.Slot].Fold(v); err != nil {
			return &EvaluationError{
				Pass:      pass,
				Attribute: a.Attr,
				Err:       err,
			}
		}
	}
	return nil
}

// scan 0, lookup or create
func (self *Engine) scanBase(t *Table, src RowSource) (*scanStat, error) {
	stat := &scanStat{}
	tuple := make([]value.Value, len(self.schema.GroupingAttributes))

	err := src.Scan(func(row Row) error {
		stat.rows++
		if err := self.project(0, row, tuple); err != nil {
			return err
		}
		idx, ok := self.lookup(t, tuple)
		if !ok {
			idx = t.insert(tuple)
		} else {
			stat.matched++
		}
		return self.fold(0, row, t.rows[idx])
	})
	return stat, err
}

func predicateError(pass int, err error) error {
	var uerr *expr.UnknownAttributeError
	if errors.As(err, &uerr) {
		return &EvaluationError{
			Pass:      pass,
			Attribute: uerr.Name,
			Err:       err,
		}
	}
	return &EvaluationError{
		Pass: pass,
		Err:  err,
	}
}

// every attribute named by sigma must be in the row, short circuit must not
// hide a misspelled name
func checkRefs(pass int, refs []*expr.Ref, row Row) error {
	for _, ref := range refs {
		if _, ok := row.Lookup(ref.Id); !ok {
			return &EvaluationError{
				Pass:      pass,
				Attribute: ref.Id,
				Err:       &expr.UnknownAttributeError{Name: ref.Id},
			}
		}
	}
	return nil
}

// scan i, never creates a row
func (self *Engine) scanVar(t *Table, src RowSource, pass int) (*scanStat, error) {
	stat := &scanStat{
		diagnostics: []Diagnostic{},
	}
	tuple := make([]value.Value, len(self.schema.GroupingAttributes))
	sigma := self.schema.Var(pass).Predicate
	eval := &expr.Evaluator{Var: pass}
	refs := expr.Refs(sigma)

	err := src.Scan(func(row Row) error {
		stat.rows++
		if err := checkRefs(pass, refs, row); err != nil {
			return err
		}
		ok, err := eval.Test(sigma, row)
		if err != nil {
			return predicateError(pass, err)
		}
		if !ok {
			return nil
		}
		if err := self.project(pass, row, tuple); err != nil {
			return err
		}
		idx, found := self.lookup(t, tuple)
		if !found {
			d := Diagnostic{
				Pass: pass,
				Key:  TupleString(tuple),
				Msg:  "is not registered by scan 0, row skipped",
			}
			self.log.Warn(
				"row skipped",
				zap.Int("pass", pass),
				zap.String("group", d.Key),
			)
			stat.diagnostics = append(stat.diagnostics, d)
			return nil
		}
		stat.matched++
		return self.fold(pass, row, t.rows[idx])
	})
	return stat, err
}

func (self *Engine) logScan(pass int, stat *scanStat, t *Table) {
	self.log.Debug(
		"scan done",
		zap.Int("pass", pass),
		zap.Int("rows", stat.rows),
		zap.Int("matched", stat.matched),
		zap.Int("groups", t.Len()),
	)
}

// Evaluate runs scan 0 to n over the source and returns the populated MF
// table. The diagnostics of every scan are recorded in the table in scan
// order.
func (self *Engine) Evaluate(src RowSource) (*Table, error) {
	t := newTable(self.schema)
	t.Diagnostics = []Diagnostic{}

	stat, err := self.scanBase(t, src)
	if err != nil {
		return nil, err
	}
	self.logScan(0, stat, t)

	n := self.schema.N
	stats := make([]*scanStat, n+1)

	if self.parallel && n > 1 {
		errs := make([]error, n+1)
		g := &errgroup.Group{}
		for i := 1; i <= n; i++ {
			pass := i
			g.Go(func() error {
				stats[pass], errs[pass] = self.scanVar(t, src, pass)
				return errs[pass]
			})
		}
		g.Wait()

		// report the failure of the lowest scan, same as sequential mode
		for i := 1; i <= n; i++ {
			if errs[i] != nil {
				return nil, errs[i]
			}
		}
	} else {
		for i := 1; i <= n; i++ {
			if stats[i], err = self.scanVar(t, src, i); err != nil {
				return nil, err
			}
		}
	}

	for i := 1; i <= n; i++ {
		self.logScan(i, stats[i], t)
		t.Diagnostics = append(t.Diagnostics, stats[i].diagnostics...)
	}
	return t, nil
}
