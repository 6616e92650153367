package plan

import (
	"sort"

	"github.com/Bkendle1/CS562-ESQL/phi"
)

type builder struct {
	spec   *phi.Spec
	schema *Schema
}

// Build validates the phi operands and derives the MF table descriptor. Every
// failure is a *ConfigurationError and is reported before any scan starts.
func Build(spec *phi.Spec) (*Schema, error) {
	b := &builder{
		spec: spec,
		schema: &Schema{
			N:      spec.N,
			Select: spec.Select,
			Having: spec.Having,
			column: make(map[string]int),
		},
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.schema, nil
}

func (self *builder) build() error {
	// 1) number of grouping variables and their predicates
	if err := self.checkN(); err != nil {
		return err
	}

	// 2) grouping attributes, V
	if err := self.planGrouping(); err != nil {
		return err
	}

	// 3) aggregates, F
	if err := self.planAggregates(); err != nil {
		return err
	}

	// 4) grouping variables, each one owns its predicate and its slots
	self.planVars()

	// 5) semantic check of every expression
	if err := self.semaCheck(); err != nil {
		return err
	}
	return nil
}

func (self *builder) checkN() error {
	if self.spec.N < 0 {
		return self.err("n", -1, "", "number of grouping variables %d is negative", self.spec.N)
	}
	if len(self.spec.Predicates) != self.spec.N {
		return self.err(
			"sigma",
			-1,
			"",
			"%d grouping variable(s) but %d predicate(s)",
			self.spec.N,
			len(self.spec.Predicates),
		)
	}
	return nil
}

func (self *builder) addColumn(name string) {
	self.schema.column[name] = len(self.schema.columns)
	self.schema.columns = append(self.schema.columns, name)
}

func (self *builder) planGrouping() error {
	self.schema.GroupingAttributes = []string{}
	for idx, name := range self.spec.GroupingAttributes {
		if name == "" {
			return self.err("V", idx, "", "grouping attribute name is empty")
		}
		if _, ok := self.schema.column[name]; ok {
			return self.err("V", idx, name, "duplicated grouping attribute")
		}
		self.schema.GroupingAttributes = append(self.schema.GroupingAttributes, name)
		self.addColumn(name)
	}
	return nil
}

func (self *builder) checkAggregate(idx int, a *phi.AggregateSpec) error {
	if a.Owner < 0 || a.Owner > self.spec.N {
		return self.err(
			"F",
			idx,
			a.Name,
			"owner index %d is outside of 0..%d",
			a.Owner,
			self.spec.N,
		)
	}
	if a.Func < phi.FuncSum || a.Func > phi.FuncMax {
		return self.err("F", idx, a.Name, "unknown aggregate function %d", a.Func)
	}
	if a.Attr == "" {
		return self.err("F", idx, a.Name, "source attribute is empty")
	}
	if a.Attr == phi.StarAttr && a.Func != phi.FuncCount {
		return self.err("F", idx, a.Name, "only count accepts * as source attribute")
	}
	if a.Name == "" {
		return self.err("F", idx, "", "aggregate output name is empty")
	}
	if col, ok := self.schema.column[a.Name]; ok {
		if col >= 0 {
			return self.err("F", idx, a.Name, "output name collides with grouping attribute")
		}
		return self.err("F", idx, a.Name, "duplicated aggregate output name")
	}
	return nil
}

func (self *builder) planAggregates() error {
	list := []*Agg{}
	for idx := range self.spec.Aggregates {
		a := &self.spec.Aggregates[idx]
		if err := self.checkAggregate(idx, a); err != nil {
			return err
		}
		list = append(list, &Agg{
			Owner: a.Owner,
			Func:  a.Func,
			Attr:  a.Attr,
			Name:  a.Name,
		})
		// reserve the name, the column position is assigned after ordering
		self.schema.column[a.Name] = -1
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Owner < list[j].Owner
	})

	for slot, a := range list {
		a.Slot = slot
		self.addColumn(a.Name)
	}
	self.schema.Aggregates = list
	return nil
}

func (self *builder) planVars() {
	vars := []*GroupingVar{}
	for i := 0; i <= self.spec.N; i++ {
		vars = append(vars, &GroupingVar{
			Index:     i,
			Predicate: self.spec.Predicate(i),
			Slots:     []int{},
		})
	}
	for _, a := range self.schema.Aggregates {
		v := vars[a.Owner]
		v.Slots = append(v.Slots, a.Slot)
	}
	self.schema.Vars = vars
}
