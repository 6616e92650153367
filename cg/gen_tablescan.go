package cg

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

// The data file is given once per scan on the command line. Every time FNR
// restarts the next scan begins, its first non comment line is the header,
// which maps the lower cased attribute name to the field number.
const tableScanTemplate = `
FNR == 1 {
  pass++;
  header = 1;
}

/^#/ || $0 == "" {
  next;
}

header {
  header = 0;
  delete col;
  for (i = 1; i <= NF; i++) {
    name = tolower($i);
    gsub(/^[ \t\r]+|[ \t\r]+$/, "", name);
    col[name] = i;
  }
{{- range .Required}}
  if (!({{.}} in col)) {
    missing({{.}});
  }
{{- end}}
  next;
}
{{range .Scans}}
pass == {{.}} {
  scan_{{.}}();
  next;
}
{{end}}`

func newtemplate(
	xx string,
) (*template.Template, error) {
	return template.New("[template]").Parse(xx)
}

func (self *queryCodeGen) field(name string) string {
	return fmt.Sprintf("$(col[%s])", awkString(name))
}

// inside of sigma_i every reference is an attribute of the current row
func (self *queryCodeGen) fieldRef(ref *expr.Ref) (string, error) {
	return self.field(ref.Id), nil
}

func (self *queryCodeGen) genTableScan() (string, error) {
	t, err := newtemplate(
		tableScanTemplate,
	)
	if err != nil {
		panic("codegen(TableScan): invalid template?")
	}

	required := []string{}
	for _, x := range self.schema.SourceAttributes() {
		required = append(required, awkString(x))
	}
	scans := []int{}
	for i := 0; i <= self.schema.N; i++ {
		scans = append(scans, i)
	}

	out := &strings.Builder{}
	if err := t.Execute(out, map[string]interface{}{
		"Required": required,
		"Scans":    scans,
	}); err != nil {
		return "", err
	}
	return out.String(), nil
}

// scan_<i> evaluates sigma_i on the current row, finds its group and folds
// the aggregates owned by grouping variable i
func (self *queryCodeGen) genScan(i int) (string, error) {
	w := newAwkWriter(
		fmt.Sprintf("scan_%d", i),
	)
	v := self.schema.Var(i)
	if v.Predicate != nil {
		pred, err := genExpr(v.Predicate, self.fieldRef)
		if err != nil {
			return "", fmt.Errorf("codegen(scan %d): %w", i, err)
		}
		w.Open("if (!(%[pred]))", awkWriterCtx{
			"pred": pred,
		})
		w.Line("return;", nil)
		w.Close()
	}

	if i == 0 {
		self.genGroupInsert(w)
	} else {
		self.genGroupLookup(w, i)
	}

	for _, a := range self.schema.Owned(i) {
		self.genAggFold(w, a)
	}
	return w.Flush(), nil
}
