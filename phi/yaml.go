package phi

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

type yamlAggregate struct {
	Owner int    `yaml:"owner"`
	Func  string `yaml:"func"`
	Attr  string `yaml:"attr"`
	As    string `yaml:"as"`
}

type yamlSpec struct {
	Select             []string        `yaml:"select"`
	N                  *int            `yaml:"n"`
	GroupingAttributes []string        `yaml:"grouping_attributes"`
	Aggregates         []yamlAggregate `yaml:"aggregates"`
	Predicates         []string        `yaml:"predicates"`
	Having             string          `yaml:"having"`
}

func yamlErr(field int, err error) error {
	return &LoadError{
		Field: FieldLabel(field),
		Err:   err,
	}
}

// LoadYAML reads the structured phi format
//
//	select: [cust, total]
//	n: 1
//	grouping_attributes: [cust]
//	aggregates:
//	  - {owner: 0, func: sum, attr: quant, as: total}
//	predicates: ["quant > 8"]
//	having: "total > 10"
func LoadYAML(r io.Reader) (*Spec, error) {
	doc := yamlSpec{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("phi yaml: %w", err)
	}

	spec := &Spec{
		Select:             []expr.SelectItem{},
		GroupingAttributes: []string{},
		Aggregates:         []AggregateSpec{},
		Predicates:         []expr.Expr{},
	}

	for _, s := range doc.Select {
		items, err := expr.ParseSelectList(s)
		if err != nil {
			return nil, yamlErr(FieldSelect, err)
		}
		spec.Select = append(spec.Select, items...)
	}

	if doc.N == nil {
		return nil, yamlErr(FieldN, fmt.Errorf("number of grouping variables is missing"))
	}
	spec.N = *doc.N

	for _, v := range doc.GroupingAttributes {
		spec.GroupingAttributes = append(spec.GroupingAttributes, strings.ToLower(strings.TrimSpace(v)))
	}

	for _, a := range doc.Aggregates {
		fn, ok := ParseFunc(a.Func)
		if !ok {
			return nil, yamlErr(FieldAggregate, fmt.Errorf("unknown function %q", a.Func))
		}
		agg := AggregateSpec{
			Owner: a.Owner,
			Func:  fn,
			Attr:  strings.ToLower(strings.TrimSpace(a.Attr)),
			Name:  strings.ToLower(strings.TrimSpace(a.As)),
		}
		if agg.Name == "" {
			agg.Name = agg.DefaultName()
		}
		spec.Aggregates = append(spec.Aggregates, agg)
	}

	for _, p := range doc.Predicates {
		e, err := expr.Parse(p)
		if err != nil {
			return nil, yamlErr(FieldPredicate, err)
		}
		spec.Predicates = append(spec.Predicates, e)
	}

	if strings.TrimSpace(doc.Having) != "" {
		e, err := expr.Parse(doc.Having)
		if err != nil {
			return nil, yamlErr(FieldHaving, err)
		}
		spec.Having = e
	}
	return spec, nil
}
