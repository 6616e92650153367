package expr

import (
	"regexp"
)

const (
	ConstNull = iota
	ConstBool
	ConstStr
	ConstInt
	ConstReal
)

const (
	ExprConst = iota
	ExprRef
	ExprCall
	ExprUnary
	ExprBinary
	ExprTernary
)

type CodeInfo struct {
	Start   int
	End     int
	Snippet string
}

type Expr interface {
	Type() int
	CInfo() CodeInfo
}

type Const struct {
	Ty       int
	Bool     bool
	String   string
	Real     float64
	Int      int64
	CodeInfo CodeInfo
}

// Ref is a reference to a named attribute, either a base relation column or
// an MF row column. Qual is the grouping variable qualifier, NoQual if absent
type Ref struct {
	Id       string
	Qual     int
	CodeInfo CodeInfo
}

type Call struct {
	Name       string
	Parameters []Expr
	CodeInfo   CodeInfo
}

type Unary struct {
	Op       []int
	Operand  Expr
	CodeInfo CodeInfo
}

type Binary struct {
	Op       int
	L        Expr
	R        Expr
	Regex    *regexp.Regexp // compiled LIKE pattern when R is a string literal
	CodeInfo CodeInfo
}

type Ternary struct {
	Cond     Expr
	B0       Expr
	B1       Expr
	CodeInfo CodeInfo
}

func (self *Const) Type() int         { return ExprConst }
func (self *Const) CInfo() CodeInfo   { return self.CodeInfo }
func (self *Ref) Type() int           { return ExprRef }
func (self *Ref) CInfo() CodeInfo     { return self.CodeInfo }
func (self *Call) Type() int          { return ExprCall }
func (self *Call) CInfo() CodeInfo    { return self.CodeInfo }
func (self *Unary) Type() int         { return ExprUnary }
func (self *Unary) CInfo() CodeInfo   { return self.CodeInfo }
func (self *Binary) Type() int        { return ExprBinary }
func (self *Binary) CInfo() CodeInfo  { return self.CodeInfo }
func (self *Ternary) Type() int       { return ExprTernary }
func (self *Ternary) CInfo() CodeInfo { return self.CodeInfo }

func (self *Binary) IsLike() bool {
	return self.Op == TkLike || self.Op == tkNotLike
}

func (self *Binary) Negated() bool {
	return self.Op == tkNotLike
}

func (self *Ref) Qualified() bool { return self.Qual != NoQual }

// Walk visits the expression tree in pre order, fn returns false to stop
// descending into the children of the current node
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e.Type() {
	case ExprCall:
		for _, x := range e.(*Call).Parameters {
			Walk(x, fn)
		}
		break
	case ExprUnary:
		Walk(e.(*Unary).Operand, fn)
		break
	case ExprBinary:
		b := e.(*Binary)
		Walk(b.L, fn)
		Walk(b.R, fn)
		break
	case ExprTernary:
		t := e.(*Ternary)
		Walk(t.Cond, fn)
		Walk(t.B0, fn)
		Walk(t.B1, fn)
		break
	default:
		break
	}
}

// Refs collects every attribute reference of the expression, in visiting
// order, duplication is kept
func Refs(e Expr) []*Ref {
	out := []*Ref{}
	Walk(e, func(x Expr) bool {
		if ref, ok := x.(*Ref); ok {
			out = append(out, ref)
		}
		return true
	})
	return out
}
