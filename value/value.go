package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Null = iota
	Bool
	Int
	Real
	Str
)

// Value is a scalar flowing through the engine, ie an attribute of a base row,
// an aggregate state or a finalized output column. The zero value is null.
type Value struct {
	Ty   int
	Bool bool
	Int  int64
	Real float64
	Str  string
}

func NewNull() Value            { return Value{} }
func NewBool(b bool) Value      { return Value{Ty: Bool, Bool: b} }
func NewInt(i int64) Value      { return Value{Ty: Int, Int: i} }
func NewReal(f float64) Value   { return Value{Ty: Real, Real: f} }
func NewStr(s string) Value     { return Value{Ty: Str, Str: s} }
func (self Value) IsNull() bool { return self.Ty == Null }

func (self Value) IsNumber() bool {
	return self.Ty == Int || self.Ty == Real
}

func (self Value) TypeName() string {
	switch self.Ty {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Real:
		return "real"
	case Str:
		return "string"
	default:
		return "unknown"
	}
}

// Float returns the numeric value as float64, false if not a number
func (self Value) Float() (float64, bool) {
	switch self.Ty {
	case Int:
		return float64(self.Int), true
	case Real:
		return self.Real, true
	default:
		return 0, false
	}
}

// Truth converts the value into boolean for predicate purpose. Null is never
// true.
func (self Value) Truth() bool {
	switch self.Ty {
	case Bool:
		return self.Bool
	case Int:
		return self.Int != 0
	case Real:
		return self.Real != 0.0
	case Str:
		return len(self.Str) != 0
	default:
		return false
	}
}

func (self Value) String() string {
	switch self.Ty {
	case Null:
		return "NULL"
	case Bool:
		return strconv.FormatBool(self.Bool)
	case Int:
		return strconv.FormatInt(self.Int, 10)
	case Real:
		return strconv.FormatFloat(self.Real, 'f', -1, 64)
	default:
		return self.Str
	}
}

// Interface returns the natural go representation, used by encoders
func (self Value) Interface() interface{} {
	switch self.Ty {
	case Bool:
		return self.Bool
	case Int:
		return self.Int
	case Real:
		return self.Real
	case Str:
		return self.Str
	default:
		return nil
	}
}

// Parse a textual field into a value. Empty text is null, otherwise int, then
// real, then string.
func Parse(text string) Value {
	if len(text) == 0 {
		return NewNull()
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewInt(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil &&
		!math.IsInf(f, 0) && !math.IsNaN(f) {
		return NewReal(f)
	}
	return NewStr(text)
}

// FromInterface converts a value scanned from database/sql into a Value
func FromInterface(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(x), nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case float32:
		return NewReal(float64(x)), nil
	case float64:
		return NewReal(x), nil
	case string:
		return NewStr(x), nil
	case []byte:
		return NewStr(string(x)), nil
	case fmt.Stringer:
		return NewStr(x.String()), nil
	default:
		return NewNull(), fmt.Errorf("unsupported value type %T", v)
	}
}

// Equal is the grouping equality. Two nulls are equal and numbers compare by
// their exact numeric value regardless of kind, an int equals a real only
// when the real is integral and converts to the same int64
func (self Value) Equal(that Value) bool {
	if self.IsNumber() && that.IsNumber() {
		switch {
		case self.Ty == Int && that.Ty == Int:
			return self.Int == that.Int
		case self.Ty == Real && that.Ty == Real:
			return self.Real == that.Real
		case self.Ty == Int:
			x, ok := realInt(that.Real)
			return ok && x == self.Int
		default:
			x, ok := realInt(self.Real)
			return ok && x == that.Int
		}
	}
	if self.Ty != that.Ty {
		return false
	}
	switch self.Ty {
	case Null:
		return true
	case Bool:
		return self.Bool == that.Bool
	default:
		return self.Str == that.Str
	}
}

// realInt converts an integral real that fits int64
func realInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Key encodes the value so that Equal values share the same key
func (self Value) Key() string {
	switch self.Ty {
	case Null:
		return "z"
	case Bool:
		if self.Bool {
			return "b1"
		}
		return "b0"
	case Int:
		return "n" + strconv.FormatInt(self.Int, 10)
	case Real:
		if x, ok := realInt(self.Real); ok {
			return "n" + strconv.FormatInt(x, 10)
		}
		return "r" + strconv.FormatFloat(self.Real, 'g', -1, 64)
	default:
		return "s" + self.Str
	}
}

// TupleKey encodes a tuple of values into a single map key
func TupleKey(tuple []Value) string {
	buf := strings.Builder{}
	for idx, v := range tuple {
		if idx > 0 {
			buf.WriteByte(0)
		}
		k := v.Key()
		buf.WriteString(strconv.Itoa(len(k)))
		buf.WriteByte(':')
		buf.WriteString(k)
	}
	return buf.String()
}
