package plan

import (
	"fmt"
)

// ConfigurationError reports an inconsistent phi operand set. Field is the
// operand label (n, V, F, sigma, G or S), Index the position inside of the
// operand list, -1 if not applicable, and Name the offending attribute.
type ConfigurationError struct {
	Field string
	Index int
	Name  string
	Msg   string
}

func (self *ConfigurationError) Error() string {
	where := self.Field
	if self.Index >= 0 {
		where = fmt.Sprintf("%s[%d]", self.Field, self.Index)
	}
	if self.Name != "" {
		return fmt.Sprintf("stage(schema): %s %q: %s", where, self.Name, self.Msg)
	}
	return fmt.Sprintf("stage(schema): %s: %s", where, self.Msg)
}

func (self *builder) err(field string, index int, name string, f string, args ...interface{}) error {
	return &ConfigurationError{
		Field: field,
		Index: index,
		Name:  name,
		Msg:   fmt.Sprintf(f, args...),
	}
}
