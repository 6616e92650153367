package mf

import (
	"github.com/Bkendle1/CS562-ESQL/phi"
	"github.com/Bkendle1/CS562-ESQL/plan"
)

// Run builds the schema, evaluates it over the source and projects the result
func Run(spec *phi.Spec, src RowSource, opts ...Option) (*Result, error) {
	schema, err := plan.Build(spec)
	if err != nil {
		return nil, err
	}
	return RunSchema(schema, src, opts...)
}

func RunSchema(schema *plan.Schema, src RowSource, opts ...Option) (*Result, error) {
	t, err := NewEngine(schema, opts...).Evaluate(src)
	if err != nil {
		return nil, err
	}
	return Project(t)
}
