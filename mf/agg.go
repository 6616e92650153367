package mf

import (
	"fmt"

	"github.com/Bkendle1/CS562-ESQL/phi"
	"github.com/Bkendle1/CS562-ESQL/value"
)

// State is the running state of one aggregate of one MF row. Sum, count, min
// and max keep the value itself, avg keeps the running sum in Value and the
// running count in Count. Defined tells whether min/max was ever updated.
type State struct {
	Func    int
	Value   value.Value
	Count   int64
	Defined bool
}

// identity element of each aggregate function
func newState(fn int) State {
	s := State{
		Func: fn,
	}
	switch fn {
	case phi.FuncSum, phi.FuncCount, phi.FuncAvg:
		s.Value = value.NewInt(0)
		break
	default:
		s.Value = value.NewNull()
		break
	}
	return s
}

// Fold one source value into the state. Count counts every qualifying row,
// other functions ignore null.
func (self *State) Fold(v value.Value) error {
	if self.Func == phi.FuncCount {
		self.Value.Int++
		return nil
	}
	if v.IsNull() {
		return nil
	}

	switch self.Func {
	case phi.FuncSum, phi.FuncAvg:
		if !v.IsNumber() {
			return fmt.Errorf(
				"%s on non numeric value %q(%s)",
				phi.FuncName(self.Func),
				v.String(),
				v.TypeName(),
			)
		}
		sum, err := value.Arith(value.OpAdd, self.Value, v)
		if err != nil {
			return err
		}
		self.Value = sum
		self.Count++
		break

	case phi.FuncMin, phi.FuncMax:
		if !self.Defined {
			self.Value = v
			self.Defined = true
			break
		}
		c, _ := value.Compare(v, self.Value)
		if (self.Func == phi.FuncMin && c < 0) || (self.Func == phi.FuncMax && c > 0) {
			self.Value = v
		}
		break

	default:
		return fmt.Errorf("unknown aggregate function %d", self.Func)
	}
	return nil
}

// Final converts the state into the output value. Avg with zero count and
// min/max never updated are null.
func (self *State) Final() value.Value {
	switch self.Func {
	case phi.FuncAvg:
		if self.Count == 0 {
			return value.NewNull()
		}
		sum, _ := self.Value.Float()
		return value.NewReal(sum / float64(self.Count))
	case phi.FuncMin, phi.FuncMax:
		if !self.Defined {
			return value.NewNull()
		}
		return self.Value
	default:
		return self.Value
	}
}
