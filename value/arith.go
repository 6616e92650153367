package value

import (
	"fmt"
	"math"
	"strings"
)

const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// Compare returns -1/0/1, ok is false when either side is null. Numbers
// compare numerically, everything else by its textual form.
func Compare(l, r Value) (int, bool) {
	if l.IsNull() || r.IsNull() {
		return 0, false
	}
	if l.IsNumber() && r.IsNumber() {
		if l.Ty == Int && r.Ty == Int {
			switch {
			case l.Int < r.Int:
				return -1, true
			case l.Int > r.Int:
				return 1, true
			default:
				return 0, true
			}
		}
		lf, _ := l.Float()
		rf, _ := r.Float()
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}
	if l.Ty == Bool && r.Ty == Bool {
		switch {
		case l.Bool == r.Bool:
			return 0, true
		case !l.Bool:
			return -1, true
		default:
			return 1, true
		}
	}
	return strings.Compare(l.String(), r.String()), true
}

// int64 arithmetic, ok is false on overflow

func addInt(l, r int64) (int64, bool) {
	x := l + r
	if (l > 0 && r > 0 && x < 0) || (l < 0 && r < 0 && x >= 0) {
		return 0, false
	}
	return x, true
}

func subInt(l, r int64) (int64, bool) {
	x := l - r
	if (l >= 0 && r < 0 && x < 0) || (l < 0 && r > 0 && x >= 0) {
		return 0, false
	}
	return x, true
}

func mulInt(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return 0, false
	}
	x := l * r
	if x/l != r {
		return 0, false
	}
	return x, true
}

// Arith performs binary arithmetic. Int results that overflow int64 are
// promoted to real. Null on either side, or a division by
// zero, produces null. Non numeric operand is an error.
func Arith(op int, l, r Value) (Value, error) {
	if l.IsNull() || r.IsNull() {
		return NewNull(), nil
	}
	if !l.IsNumber() || !r.IsNumber() {
		return NewNull(), fmt.Errorf(
			"arithmetic on non numeric value(%s, %s)",
			l.TypeName(),
			r.TypeName(),
		)
	}

	if l.Ty == Int && r.Ty == Int {
		switch op {
		case OpAdd:
			if x, ok := addInt(l.Int, r.Int); ok {
				return NewInt(x), nil
			}
			break
		case OpSub:
			if x, ok := subInt(l.Int, r.Int); ok {
				return NewInt(x), nil
			}
			break
		case OpMul:
			if x, ok := mulInt(l.Int, r.Int); ok {
				return NewInt(x), nil
			}
			break
		case OpMod:
			if r.Int == 0 {
				return NewNull(), nil
			}
			return NewInt(l.Int % r.Int), nil
		case OpDiv:
			if r.Int == 0 {
				return NewNull(), nil
			}
			if l.Int == math.MinInt64 && r.Int == -1 {
				break
			}
			if l.Int%r.Int == 0 {
				return NewInt(l.Int / r.Int), nil
			}
			return NewReal(float64(l.Int) / float64(r.Int)), nil
		}
	}

	// mixed kinds, or an int result that does not fit int64

	lf, _ := l.Float()
	rf, _ := r.Float()
	switch op {
	case OpAdd:
		return NewReal(lf + rf), nil
	case OpSub:
		return NewReal(lf - rf), nil
	case OpMul:
		return NewReal(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return NewNull(), nil
		}
		return NewReal(lf / rf), nil
	case OpMod:
		if rf == 0 {
			return NewNull(), nil
		}
		return NewReal(math.Mod(lf, rf)), nil
	default:
		return NewNull(), fmt.Errorf("unknown arithmetic operator %d", op)
	}
}

// Negate flips the sign of a number
func Negate(v Value) (Value, error) {
	switch v.Ty {
	case Null:
		return v, nil
	case Int:
		if v.Int == math.MinInt64 {
			return NewReal(-float64(v.Int)), nil
		}
		return NewInt(-v.Int), nil
	case Real:
		return NewReal(-v.Real), nil
	default:
		return NewNull(), fmt.Errorf("negate non numeric value(%s)", v.TypeName())
	}
}
