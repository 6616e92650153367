package expr

import (
	"bytes"
	"fmt"
)

// Stringify the AST. We do not use method but use free function

func doPrintExprConst(c *Const, buf *bytes.Buffer) {
	switch c.Ty {
	case ConstBool:
		buf.WriteString(fmt.Sprintf("%t", c.Bool))
		break
	case ConstStr:
		buf.WriteString(fmt.Sprintf("%q", c.String))
		break
	case ConstInt:
		buf.WriteString(fmt.Sprintf("%d", c.Int))
		break
	case ConstReal:
		buf.WriteString(fmt.Sprintf("%f", c.Real))
		break
	case ConstNull:
		buf.WriteString("null")
		break
	default:
		panic("unreachable")
	}
}

func doPrintExprRef(r *Ref, buf *bytes.Buffer) {
	if r.Qualified() {
		buf.WriteString(fmt.Sprintf("%d.", r.Qual))
	}
	buf.WriteString(r.Id)
}

func doPrintExprCall(c *Call, buf *bytes.Buffer) {
	buf.WriteString(c.Name)
	buf.WriteString("(")
	sz := len(c.Parameters)
	for idx, entry := range c.Parameters {
		doPrintExpr(entry, buf)
		if idx < sz-1 {
			buf.WriteString(",")
		}
	}
	buf.WriteString(")")
}

func doPrintExprUnary(u *Unary, buf *bytes.Buffer) {
	for _, o := range u.Op {
		switch o {
		case TkAdd:
			buf.WriteString("+")
			break
		case TkSub:
			buf.WriteString("-")
			break
		case TkNot:
			buf.WriteString("!")
			break
		default:
			panic("unreachable")
		}
	}
	doPrintExpr(u.Operand, buf)
}

func opName(op int) string {
	switch op {
	case TkAdd:
		return "+"
	case TkSub:
		return "-"
	case TkMul:
		return "*"
	case TkDiv:
		return "/"
	case TkMod:
		return "%"
	case TkLt:
		return "<"
	case TkLe:
		return "<="
	case TkGt:
		return ">"
	case TkGe:
		return ">="
	case TkEq:
		return "=="
	case TkNe:
		return "!="
	case TkAnd:
		return "&&"
	case TkOr:
		return "||"
	case TkLike:
		return " like "
	case tkNotLike:
		return " not like "
	default:
		panic("unreachable")
	}
}

func doPrintExprBinary(b *Binary, buf *bytes.Buffer) {
	buf.WriteString("(")
	doPrintExpr(b.L, buf)
	buf.WriteString(opName(b.Op))
	doPrintExpr(b.R, buf)
	buf.WriteString(")")
}

func doPrintExprTernary(t *Ternary, buf *bytes.Buffer) {
	doPrintExpr(t.Cond, buf)
	buf.WriteString(" ? ")
	doPrintExpr(t.B0, buf)
	buf.WriteString(" : ")
	doPrintExpr(t.B1, buf)
}

func doPrintExpr(expr Expr, buf *bytes.Buffer) {
	switch expr.Type() {
	case ExprConst:
		doPrintExprConst(expr.(*Const), buf)
		break
	case ExprRef:
		doPrintExprRef(expr.(*Ref), buf)
		break
	case ExprCall:
		doPrintExprCall(expr.(*Call), buf)
		break
	case ExprUnary:
		doPrintExprUnary(expr.(*Unary), buf)
		break
	case ExprBinary:
		doPrintExprBinary(expr.(*Binary), buf)
		break
	case ExprTernary:
		doPrintExprTernary(expr.(*Ternary), buf)
		break
	default:
		panic("unreachable")
	}
}

func PrintExpr(expr Expr) string {
	if expr == nil {
		return ""
	}
	b := &bytes.Buffer{}
	doPrintExpr(expr, b)
	return b.String()
}
