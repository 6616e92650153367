package expr

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Bkendle1/CS562-ESQL/value"
)

// Env resolves attribute names into value during evaluation. For a grouping
// variable predicate the env is a base row, for having it is a finalized MF
// row.
type Env interface {
	Lookup(name string) (value.Value, bool)
}

// MapEnv is the simplest env, mostly used by tests
type MapEnv map[string]value.Value

func (self MapEnv) Lookup(name string) (value.Value, bool) {
	v, ok := self[name]
	return v, ok
}

type UnknownAttributeError struct {
	Name string
}

func (self *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", self.Name)
}

type QualifierError struct {
	Ref *Ref
	Var int
}

func (self *QualifierError) Error() string {
	if self.Var == 0 {
		return fmt.Sprintf(
			"qualified reference %d.%s is not allowed here",
			self.Ref.Qual,
			self.Ref.Id,
		)
	}
	return fmt.Sprintf(
		"qualified reference %d.%s inside predicate of grouping variable %d",
		self.Ref.Qual,
		self.Ref.Id,
		self.Var,
	)
}

// Evaluator evaluates expression against an env. Var is the grouping variable
// whose qualifier is accepted, ie inside of sigma_1 the reference 1.quant is
// the same as quant. Var 0 rejects every qualifier.
type Evaluator struct {
	Var int
}

// Eval evaluates an expression without grouping variable context
func Eval(e Expr, env Env) (value.Value, error) {
	x := Evaluator{}
	return x.Eval(e, env)
}

// Test evaluates the expression as predicate. A nil expression is true and a
// null result is false.
func (self *Evaluator) Test(e Expr, env Env) (bool, error) {
	if e == nil {
		return true, nil
	}
	v, err := self.Eval(e, env)
	if err != nil {
		return false, err
	}
	return v.Truth(), nil
}

func (self *Evaluator) Eval(e Expr, env Env) (value.Value, error) {
	switch e.Type() {
	case ExprConst:
		return self.evalConst(e.(*Const)), nil
	case ExprRef:
		return self.evalRef(e.(*Ref), env)
	case ExprCall:
		return self.evalCall(e.(*Call), env)
	case ExprUnary:
		return self.evalUnary(e.(*Unary), env)
	case ExprBinary:
		return self.evalBinary(e.(*Binary), env)
	case ExprTernary:
		return self.evalTernary(e.(*Ternary), env)
	default:
		return value.NewNull(), fmt.Errorf("unknown expression type %d", e.Type())
	}
}

func (self *Evaluator) evalConst(c *Const) value.Value {
	switch c.Ty {
	case ConstBool:
		return value.NewBool(c.Bool)
	case ConstStr:
		return value.NewStr(c.String)
	case ConstInt:
		return value.NewInt(c.Int)
	case ConstReal:
		return value.NewReal(c.Real)
	default:
		return value.NewNull()
	}
}

func (self *Evaluator) evalRef(ref *Ref, env Env) (value.Value, error) {
	if ref.Qualified() && (self.Var == 0 || ref.Qual != self.Var) {
		return value.NewNull(), &QualifierError{Ref: ref, Var: self.Var}
	}
	v, ok := env.Lookup(ref.Id)
	if !ok {
		return value.NewNull(), &UnknownAttributeError{Name: ref.Id}
	}
	return v, nil
}

func (self *Evaluator) evalCall(call *Call, env Env) (value.Value, error) {
	args := []value.Value{}
	for _, p := range call.Parameters {
		v, err := self.Eval(p, env)
		if err != nil {
			return value.NewNull(), err
		}
		args = append(args, v)
	}
	return CallBuiltin(call.Name, args)
}

// IsBuiltin tells whether the name is a known builtin function
func IsBuiltin(name string) bool {
	switch name {
	case "lower", "upper", "length", "abs":
		return true
	default:
		return false
	}
}

func CallBuiltin(name string, args []value.Value) (value.Value, error) {
	if !IsBuiltin(name) {
		return value.NewNull(), fmt.Errorf("unknown function %s", name)
	}
	if len(args) != 1 {
		return value.NewNull(), fmt.Errorf("function %s expects 1 argument", name)
	}
	a := args[0]
	if a.IsNull() {
		return a, nil
	}

	switch name {
	case "lower":
		return value.NewStr(strings.ToLower(a.String())), nil
	case "upper":
		return value.NewStr(strings.ToUpper(a.String())), nil
	case "length":
		return value.NewInt(int64(utf8.RuneCountInString(a.String()))), nil
	default:
		switch a.Ty {
		case value.Int:
			if a.Int < 0 {
				return value.NewInt(-a.Int), nil
			}
			return a, nil
		case value.Real:
			return value.NewReal(math.Abs(a.Real)), nil
		default:
			return value.NewNull(), fmt.Errorf("abs on non numeric value(%s)", a.TypeName())
		}
	}
}

func (self *Evaluator) evalUnary(unary *Unary, env Env) (value.Value, error) {
	v, err := self.Eval(unary.Operand, env)
	if err != nil {
		return v, err
	}
	for i := len(unary.Op) - 1; i >= 0; i-- {
		switch unary.Op[i] {
		case TkNot:
			if !v.IsNull() {
				v = value.NewBool(!v.Truth())
			}
			break
		case TkSub:
			if v, err = value.Negate(v); err != nil {
				return v, err
			}
			break
		default:
			break
		}
	}
	return v, nil
}

// three valued logic for AND/OR, null means unknown
func (self *Evaluator) evalLogic(binary *Binary, env Env) (value.Value, error) {
	l, err := self.Eval(binary.L, env)
	if err != nil {
		return l, err
	}
	if binary.Op == TkAnd && !l.IsNull() && !l.Truth() {
		return value.NewBool(false), nil
	}
	if binary.Op == TkOr && !l.IsNull() && l.Truth() {
		return value.NewBool(true), nil
	}

	r, err := self.Eval(binary.R, env)
	if err != nil {
		return r, err
	}

	if binary.Op == TkAnd {
		if !r.IsNull() && !r.Truth() {
			return value.NewBool(false), nil
		}
	} else {
		if !r.IsNull() && r.Truth() {
			return value.NewBool(true), nil
		}
	}
	if l.IsNull() || r.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(binary.Op == TkAnd), nil
}

func (self *Evaluator) evalLike(binary *Binary, l, r value.Value) (value.Value, error) {
	if l.IsNull() || r.IsNull() {
		return value.NewNull(), nil
	}
	re := binary.Regex
	if re == nil {
		x, err := regexp.Compile(LikeToRegex(r.String()))
		if err != nil {
			return value.NewNull(), fmt.Errorf("invalid LIKE pattern: %s", err)
		}
		re = x
	}
	m := re.MatchString(l.String())
	if binary.Negated() {
		m = !m
	}
	return value.NewBool(m), nil
}

func (self *Evaluator) evalBinary(binary *Binary, env Env) (value.Value, error) {
	if binary.Op == TkAnd || binary.Op == TkOr {
		return self.evalLogic(binary, env)
	}

	l, err := self.Eval(binary.L, env)
	if err != nil {
		return l, err
	}
	r, err := self.Eval(binary.R, env)
	if err != nil {
		return r, err
	}

	switch binary.Op {
	case TkAdd:
		return value.Arith(value.OpAdd, l, r)
	case TkSub:
		return value.Arith(value.OpSub, l, r)
	case TkMul:
		return value.Arith(value.OpMul, l, r)
	case TkDiv:
		return value.Arith(value.OpDiv, l, r)
	case TkMod:
		return value.Arith(value.OpMod, l, r)
	case TkLike, tkNotLike:
		return self.evalLike(binary, l, r)
	}

	c, ok := value.Compare(l, r)
	if !ok {
		return value.NewNull(), nil
	}
	switch binary.Op {
	case TkLt:
		return value.NewBool(c < 0), nil
	case TkLe:
		return value.NewBool(c <= 0), nil
	case TkGt:
		return value.NewBool(c > 0), nil
	case TkGe:
		return value.NewBool(c >= 0), nil
	case TkEq:
		return value.NewBool(c == 0), nil
	case TkNe:
		return value.NewBool(c != 0), nil
	default:
		return value.NewNull(), fmt.Errorf("unknown binary operator %d", binary.Op)
	}
}

func (self *Evaluator) evalTernary(ternary *Ternary, env Env) (value.Value, error) {
	c, err := self.Eval(ternary.Cond, env)
	if err != nil {
		return c, err
	}
	if c.Truth() {
		return self.Eval(ternary.B0, env)
	}
	return self.Eval(ternary.B1, env)
}
