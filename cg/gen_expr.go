package cg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/expr"
)

// resolves an attribute reference into an AWK lvalue
type refResolver func(*expr.Ref) (string, error)

// expression generation. Every operator goes through a helper function of
// builtin.go, the empty string is null and the helpers propagate it the way
// the expression evaluator does.
type exprCodeGen struct {
	resolve refResolver
	o       strings.Builder
	err     error
}

func awkString(s string) string {
	buf := strings.Builder{}
	buf.WriteString("\"")
	for _, c := range s {
		switch c {
		case '\\':
			buf.WriteString("\\\\")
			break
		case '"':
			buf.WriteString("\\\"")
			break
		case '\n':
			buf.WriteString("\\n")
			break
		case '\t':
			buf.WriteString("\\t")
			break
		case '\r':
			buf.WriteString("\\r")
			break
		default:
			buf.WriteRune(c)
			break
		}
	}
	buf.WriteString("\"")
	return buf.String()
}

func (self *exprCodeGen) fail(e expr.Expr, format string, args ...interface{}) {
	if self.err == nil {
		self.err = fmt.Errorf(
			"codegen(expr): %s: %s",
			strings.TrimSpace(e.CInfo().Snippet),
			fmt.Sprintf(format, args...),
		)
	}
}

func (self *exprCodeGen) genConst(
	c *expr.Const,
) {
	switch c.Ty {
	case expr.ConstInt:
		self.o.WriteString(strconv.FormatInt(c.Int, 10))
		break
	case expr.ConstReal:
		self.o.WriteString(strconv.FormatFloat(c.Real, 'g', -1, 64))
		break
	case expr.ConstBool:
		if c.Bool {
			self.o.WriteString("1")
		} else {
			self.o.WriteString("0")
		}
		break
	case expr.ConstStr:
		self.o.WriteString(awkString(c.String))
		break
	default:
		self.o.WriteString("\"\"")
		break
	}
}

func (self *exprCodeGen) genRef(
	ref *expr.Ref,
) {
	x, err := self.resolve(ref)
	if err != nil {
		if self.err == nil {
			self.err = err
		}
		return
	}
	self.o.WriteString(x)
}

func (self *exprCodeGen) genHelper(
	name string,
	arg ...expr.Expr,
) {
	self.o.WriteString(name)
	self.o.WriteString("(")
	for idx, x := range arg {
		if idx > 0 {
			self.o.WriteString(", ")
		}
		self.genExpr(x)
	}
	self.o.WriteString(")")
}

func (self *exprCodeGen) genCall(
	call *expr.Call,
) {
	if !expr.IsBuiltin(call.Name) {
		self.fail(call, "unknown function %s", call.Name)
		return
	}
	if len(call.Parameters) != 1 {
		self.fail(call, "function %s expects 1 argument", call.Name)
		return
	}
	self.genHelper("fn_"+call.Name, call.Parameters...)
}

func (self *exprCodeGen) genUnary(
	unary *expr.Unary,
) {
	// the last operator binds tightest
	for _, x := range unary.Op {
		switch x {
		case expr.TkNot:
			self.o.WriteString("op_not(")
			break
		case expr.TkSub:
			self.o.WriteString("op_neg(")
			break
		default:
			self.o.WriteString("(")
			break
		}
	}
	self.genExpr(unary.Operand)
	self.o.WriteString(strings.Repeat(")", len(unary.Op)))
}

func binaryHelper(op int) string {
	switch op {
	case expr.TkAdd:
		return "op_add"
	case expr.TkSub:
		return "op_sub"
	case expr.TkMul:
		return "op_mul"
	case expr.TkDiv:
		return "op_div"
	case expr.TkMod:
		return "op_mod"
	case expr.TkAnd:
		return "op_and"
	case expr.TkOr:
		return "op_or"
	case expr.TkLt:
		return "op_lt"
	case expr.TkLe:
		return "op_le"
	case expr.TkGt:
		return "op_gt"
	case expr.TkGe:
		return "op_ge"
	case expr.TkEq:
		return "op_eq"
	case expr.TkNe:
		return "op_ne"
	default:
		return ""
	}
}

// the pattern of LIKE must be a string literal, AWK only sees the regex
func (self *exprCodeGen) genLike(
	binary *expr.Binary,
) {
	pattern, ok := binary.R.(*expr.Const)
	if !ok || pattern.Ty != expr.ConstStr {
		self.fail(binary, "LIKE pattern must be a string literal")
		return
	}
	if binary.Negated() {
		self.o.WriteString("op_not(")
	}
	self.o.WriteString("op_like(")
	self.genExpr(binary.L)
	self.o.WriteString(", ")
	self.o.WriteString(awkString(expr.LikeToRegex(pattern.String)))
	self.o.WriteString(")")
	if binary.Negated() {
		self.o.WriteString(")")
	}
}

func (self *exprCodeGen) genBinary(
	binary *expr.Binary,
) {
	if binary.IsLike() {
		self.genLike(binary)
		return
	}
	name := binaryHelper(binary.Op)
	if name == "" {
		self.fail(binary, "unknown binary operator %d", binary.Op)
		return
	}
	self.genHelper(name, binary.L, binary.R)
}

func (self *exprCodeGen) genTernary(
	ternary *expr.Ternary,
) {
	self.o.WriteString("(")
	self.genSubExpr(ternary.Cond)
	self.o.WriteString(" ? ")
	self.genSubExpr(ternary.B0)
	self.o.WriteString(" : ")
	self.genSubExpr(ternary.B1)
	self.o.WriteString(")")
}

func (self *exprCodeGen) genExpr(
	e expr.Expr,
) {
	switch e.Type() {
	case expr.ExprConst:
		self.genConst(e.(*expr.Const))
		break
	case expr.ExprRef:
		self.genRef(e.(*expr.Ref))
		break
	case expr.ExprCall:
		self.genCall(e.(*expr.Call))
		break
	case expr.ExprUnary:
		self.genUnary(e.(*expr.Unary))
		break
	case expr.ExprBinary:
		self.genBinary(e.(*expr.Binary))
		break
	case expr.ExprTernary:
		self.genTernary(e.(*expr.Ternary))
		break
	default:
		self.fail(e, "unknown expression type %d", e.Type())
		break
	}
}

func (self *exprCodeGen) genSubExpr(
	e expr.Expr,
) {
	self.o.WriteString("(")
	self.genExpr(e)
	self.o.WriteString(")")
}

func genExpr(e expr.Expr, resolve refResolver) (string, error) {
	gen := &exprCodeGen{
		resolve: resolve,
	}
	gen.genExpr(e)
	if gen.err != nil {
		return "", gen.err
	}
	return gen.o.String(), nil
}
