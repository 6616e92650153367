package phi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

// Operand field of the phi operator, in the order they show up in a text file
const (
	FieldSelect = iota
	FieldN
	FieldGrouping
	FieldAggregate
	FieldPredicate
	FieldHaving
	fieldSize
)

var fieldLabel = []string{"S", "n", "V", "F", "sigma", "G"}

func FieldLabel(f int) string {
	if f < 0 || f >= fieldSize {
		return "?"
	}
	return fieldLabel[f]
}

// LoadError is reported by every loader, Line is 0 when the operand does not
// come from a file
type LoadError struct {
	Line  int
	Field string
	Err   error
}

func (self *LoadError) Error() string {
	if self.Line > 0 {
		return fmt.Sprintf("phi line %d (%s): %s", self.Line, self.Field, self.Err)
	}
	return fmt.Sprintf("phi %s: %s", self.Field, self.Err)
}

func (self *LoadError) Unwrap() error {
	return self.Err
}

// label accepted in front of an operand line, ie "S: ..." and friends
func isLabel(field int, label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	switch field {
	case FieldSelect:
		return label == "s" || label == "select"
	case FieldN:
		return label == "n"
	case FieldGrouping:
		return label == "v" || label == "grouping attributes" || label == "grouping_attributes"
	case FieldAggregate:
		return label == "f" || label == "aggregates"
	case FieldPredicate:
		return label == "sigma" || label == "predicates"
	case FieldHaving:
		return label == "g" || label == "having"
	default:
		return false
	}
}

func stripLabel(field int, line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return line
	}
	if isLabel(field, line[:idx]) {
		return line[idx+1:]
	}
	return line
}

func splitNames(xx string) []string {
	out := []string{}
	if strings.TrimSpace(xx) == "" {
		return out
	}
	for _, v := range strings.Split(xx, ",") {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}

// parseField fills one operand of the Spec from its textual form
func parseField(spec *Spec, field int, text string) error {
	text = strings.TrimSpace(text)

	switch field {
	case FieldSelect:
		s, err := expr.ParseSelectList(text)
		if err != nil {
			return err
		}
		spec.Select = s
		break

	case FieldN:
		if text == "" {
			return fmt.Errorf("number of grouping variables is missing")
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("number of grouping variables is not an integer: %q", text)
		}
		spec.N = n
		break

	case FieldGrouping:
		spec.GroupingAttributes = splitNames(text)
		break

	case FieldAggregate:
		spec.Aggregates = []AggregateSpec{}
		if text == "" {
			break
		}
		for _, token := range strings.Split(text, ",") {
			agg, err := ParseAggregate(token)
			if err != nil {
				return err
			}
			spec.Aggregates = append(spec.Aggregates, agg)
		}
		break

	case FieldPredicate:
		l, err := expr.ParseList(text)
		if err != nil {
			return err
		}
		spec.Predicates = l
		break

	case FieldHaving:
		spec.Having = nil
		if text == "" {
			break
		}
		e, err := expr.Parse(text)
		if err != nil {
			return err
		}
		spec.Having = e
		break
	}
	return nil
}

// FromOperands builds the spec from the six raw operands in field order
func FromOperands(operands []string) (*Spec, error) {
	if len(operands) > fieldSize {
		return nil, fmt.Errorf("phi has %d operands, expect %d", len(operands), fieldSize)
	}
	spec := &Spec{}
	for field := 0; field < fieldSize; field++ {
		text := ""
		if field < len(operands) {
			text = operands[field]
		}
		if err := parseField(spec, field, text); err != nil {
			return nil, &LoadError{
				Field: FieldLabel(field),
				Err:   err,
			}
		}
	}
	return spec, nil
}

// LoadText reads the line oriented phi format, one operand per line in the
// order S, n, V, F, sigma, G. Each line may carry its label, ie "V: cust".
// Blank lines and lines starting with '#' are ignored, trailing sigma and G
// lines may be omitted when they are empty.
func LoadText(r io.Reader) (*Spec, error) {
	scanner := bufio.NewScanner(r)
	spec := &Spec{}
	field := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if field == fieldSize {
			return nil, &LoadError{
				Line:  lineNo,
				Field: "?",
				Err:   fmt.Errorf("unexpected extra operand line"),
			}
		}
		if err := parseField(spec, field, stripLabel(field, line)); err != nil {
			return nil, &LoadError{
				Line:  lineNo,
				Field: FieldLabel(field),
				Err:   err,
			}
		}
		field++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if field < FieldPredicate {
		return nil, &LoadError{
			Line:  lineNo,
			Field: FieldLabel(field),
			Err:   fmt.Errorf("operand is missing"),
		}
	}
	if spec.Predicates == nil {
		spec.Predicates = []expr.Expr{}
	}
	return spec, nil
}

// LoadFile picks the loader by file extension, .yaml and .yml are YAML and
// everything else is the line oriented text format
func LoadFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadText(f)
	}
}
