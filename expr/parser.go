package expr

// parser of the predicate/projection expression used by the phi operands. The
// grammar is the expression part of a SQL statement
//
// expr-list := expr (',' expr)*
// select-list := select-item (',' select-item)*
// select-item := expr [AS ID]?
//
// expr :=
//   ternary |
//   binary  |
//   unary   |
//   call    |
//   const
//
// ternary := expr '?' expr ':' expr
//
// binary := expr binary-op binary
// binary-op := OR | AND | [NOT]? IN | [NOT]? BETWEEN | [NOT]? LIKE | ...
//
// unary := NOT expr | ('+' | '-')+ primary
//
// primary := '(' expr ')' | ID | INT '.' ID | call | const
// call := ID '(' call-arg-list? ')'
// call-arg-list := expr (',' expr)*
//
// const := INT | FLOAT | TRUE | FALSE | NULL | STR
//
// ----------------------------------------------------------------------------

import (
	"fmt"
	"regexp"
	"strings"
)

type Parser struct {
	L *Lexer
}

// one item of a select list
type SelectItem struct {
	Value Expr
	Alias string
}

// Name of the output column, the alias if any otherwise the source text
func (self *SelectItem) Name() string {
	if self.Alias != "" {
		return self.Alias
	}
	if ref, ok := self.Value.(*Ref); ok && !ref.Qualified() {
		return ref.Id
	}
	return strings.TrimSpace(self.Value.CInfo().Snippet)
}

func newParser(xx string) *Parser {
	return &Parser{
		L: newLexer(xx),
	}
}

func NewParser(xx string) *Parser {
	return newParser(xx)
}

// Parse a single expression, the whole input must be consumed
func Parse(xx string) (Expr, error) {
	p := newParser(xx)
	p.L.Next()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.L.Token != TkEof {
		return nil, p.err("dangling code after expression")
	}
	return e, nil
}

// ParseList parses a comma separated list of expressions. Commas nested inside
// of parenthesis or string literal do not split
func ParseList(xx string) ([]Expr, error) {
	p := newParser(xx)
	out := []Expr{}
	if p.L.Next() == TkEof {
		return out, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.L.Token == TkEof {
			break
		}
		if err := p.expect(TkComma); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParseSelectList parses projection list with optional alias. A single '*'
// means every column and is returned as an empty list
func ParseSelectList(xx string) ([]SelectItem, error) {
	if strings.TrimSpace(xx) == "*" {
		return []SelectItem{}, nil
	}

	p := newParser(xx)
	out := []SelectItem{}
	if p.L.Next() == TkEof {
		return out, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item := SelectItem{
			Value: e,
		}
		if p.L.Token == TkAs {
			if p.L.Next() != TkId {
				return nil, p.err("expect an identifier after AS")
			}
			item.Alias = p.L.Lexeme.Text
			p.L.Next()
		}
		out = append(out, item)
		if p.L.Token == TkEof {
			break
		}
		if err := p.expect(TkComma); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (self *Parser) err(msg string) error {
	if self.L.Token == TkError {
		return fmt.Errorf("%s", self.L.Lexeme.Text)
	} else {
		return fmt.Errorf("%s: %s", self.L.dinfo(), msg)
	}
}

func (self *Parser) expect(tk int) error {
	if self.L.Token == tk {
		self.L.Next()
		return nil
	} else {
		return self.err("unexpected token during grammar parsing")
	}
}

// ----------------------------------------------------------------------------

func (self *Parser) parseExpr() (Expr, error) {
	return self.parseTernary()
}

func (self *Parser) parseTernary() (Expr, error) {
	start := self.tokenOrigin()

	cond, err := self.parseBinary()
	if err != nil {
		return nil, err
	}

	// check whether we have a ? mark
	if self.L.Token == TkQuestion {
		self.L.Next()

		l, err := self.parseBinary()
		if err != nil {
			return nil, err
		}

		if err := self.expect(TkColon); err != nil {
			return nil, err
		}

		r, err := self.parseBinary()
		if err != nil {
			return nil, err
		}

		return &Ternary{
			Cond:     cond,
			B0:       l,
			B1:       r,
			CodeInfo: self.exprCodeInfo(start),
		}, nil
	}
	return cond, nil
}

const maxOpPrec = 7
const invalidOpPrec = -1
const notOperandPrec = 3

func (self *Parser) binPrec(tk int) int {
	switch tk {
	case TkOr:
		return 0
	case TkAnd:
		return 1
	case TkIn, TkBetween, TkLike, TkNot:
		return 2
	case TkEq, TkNe:
		return 3
	case TkLt, TkLe, TkGt, TkGe:
		return 4
	case TkAdd, TkSub:
		return 5
	case TkMul, TkDiv, TkMod:
		return 6
	default:
		return invalidOpPrec
	}
}

// Binary parsing, precedence climbing
func (self *Parser) doParseBin(prec int) (Expr, error) {
	if prec == maxOpPrec {
		return self.parseUnary()
	}

	start := self.tokenOrigin()

	l, err := self.parseUnary()
	if err != nil {
		return nil, err
	}

	return self.doParseBinRest(l, prec, start)
}

func (self *Parser) parseBinary() (Expr, error) {
	return self.doParseBin(0)
}

func (self *Parser) doParseBinBetweenRHS(
	prec int,
) (Expr, Expr, error) {
	lowerBound, err := self.doParseBin(prec)
	if err != nil {
		return nil, nil, err
	}

	if self.L.Token != TkAnd {
		return nil, nil, self.err("expect AND for BETWEEN operator")
	}
	self.L.Next()

	upperBound, err := self.doParseBin(prec)
	if err != nil {
		return nil, nil, err
	}

	return lowerBound, upperBound, nil
}

func (self *Parser) doParseBinInRHS() ([]Expr, error) {
	if self.L.Token != TkLPar {
		return nil, self.err("expect '(' for IN operator's rhs")
	}
	self.L.Next()

	out := []Expr{}

	for self.L.Token != TkRPar {
		if v, err := self.parseExpr(); err != nil {
			return nil, err
		} else {
			out = append(out, v)
		}
		if self.L.Token == TkComma {
			self.L.Next()
		} else if self.L.Token != TkRPar {
			return nil, self.err("expect a ',' or ')' after element in IN's rhs")
		}
	}

	self.L.Next()
	if len(out) == 0 {
		return nil, self.err("IN operator's RHS is an empty set, which is not allowed")
	}
	return out, nil
}

func (self *Parser) doParseBinRest(lhs Expr,
	prec int,
	start int,
) (Expr, error) {

	for {
		tk := self.L.Token
		nextPrec := self.binPrec(tk)

		if nextPrec == invalidOpPrec {
			break
		} else if nextPrec < prec {
			break
		}

		ntk := self.L.Next() // eat the operator token

		if tk == TkNot {
			switch ntk {
			case TkIn:
				tk = tkNotIn
				break
			case TkBetween:
				tk = tkNotBetween
				break
			case TkLike:
				tk = tkNotLike
				break
			default:
				return nil, self.err(
					"NOT operator shows up, but expect a suffix operator, " +
						"example like NOT IN, NOT BETWEEN, NOT LIKE",
				)
			}
			self.L.Next()
		}

		var newNode Expr
		switch tk {
		case TkBetween, tkNotBetween:
			if lower, upper, err := self.doParseBinBetweenRHS(nextPrec + 1); err != nil {
				return nil, err
			} else {
				info := self.exprCodeInfo(start)
				between := &Binary{
					Op: TkAnd,
					L: &Binary{
						Op:       TkGe,
						L:        lhs,
						R:        lower,
						CodeInfo: info,
					},
					R: &Binary{
						Op:       TkLe,
						L:        lhs,
						R:        upper,
						CodeInfo: info,
					},
					CodeInfo: info,
				}

				if tk == TkBetween {
					newNode = between
				} else {
					newNode = &Unary{
						Op:       []int{TkNot},
						Operand:  between,
						CodeInfo: info,
					}
				}
			}
			break

		case TkIn, tkNotIn:
			if v, err := self.doParseBinInRHS(); err != nil {
				return nil, err
			} else {
				info := self.exprCodeInfo(start)
				var out Expr

				for _, vv := range v {
					eq := &Binary{
						Op:       TkEq,
						L:        lhs,
						R:        vv,
						CodeInfo: info,
					}

					if out == nil {
						out = eq
					} else {
						out = &Binary{
							Op:       TkOr,
							L:        out,
							R:        eq,
							CodeInfo: info,
						}
					}
				}

				if tk == tkNotIn {
					newNode = &Unary{
						Op:       []int{TkNot},
						Operand:  out,
						CodeInfo: info,
					}
				} else {
					newNode = out
				}
			}
			break

		case TkLike, tkNotLike:
			if v, err := self.doParseBin(nextPrec + 1); err != nil {
				return nil, err
			} else {
				b := &Binary{
					Op:       tk,
					L:        lhs,
					R:        v,
					CodeInfo: self.exprCodeInfo(start),
				}
				// literal pattern is translated into regex once
				if c, ok := v.(*Const); ok && c.Ty == ConstStr {
					re, err := regexp.Compile(LikeToRegex(c.String))
					if err != nil {
						return nil, self.err(fmt.Sprintf("invalid LIKE pattern: %s", err))
					}
					b.Regex = re
				}
				newNode = b
			}
			break

		default:
			if v, err := self.doParseBin(nextPrec + 1); err != nil {
				return nil, err
			} else {
				newNode = &Binary{
					Op:       tk,
					L:        lhs,
					R:        v,
					CodeInfo: self.exprCodeInfo(start),
				}
			}
			break
		}

		lhs = newNode
	}

	return lhs, nil
}

func (self *Parser) parseUnary() (Expr, error) {
	start := self.tokenOrigin()

	// NOT binds looser than comparison, ie NOT a > 1 means NOT (a > 1)
	if self.L.Token == TkNot {
		self.L.Next()
		operand, err := self.doParseBin(notOperandPrec)
		if err != nil {
			return nil, err
		}
		return &Unary{
			Op:       []int{TkNot},
			Operand:  operand,
			CodeInfo: self.exprCodeInfo(start),
		}, nil
	}

	opList := []int{}
	for {
		cur := self.L.Token
		if cur == TkAdd || cur == TkSub {
			opList = append(opList, cur)
			self.L.Next()
		} else {
			break
		}
	}

	expr, err := self.parsePrimary()
	if err != nil {
		return nil, err
	}

	if len(opList) > 0 {
		return &Unary{
			Op:       opList,
			Operand:  expr,
			CodeInfo: self.exprCodeInfo(start),
		}, nil
	} else {
		return expr, nil
	}
}

func (self *Parser) parseCall(
	ref *Ref,
	start int,
) (*Call, error) {
	if ref.Qualified() {
		return nil, self.err("qualified name cannot be called")
	}
	params := []Expr{}

	if self.L.Next() != TkRPar {
		for {
			e, err := self.parseExpr()
			if err != nil {
				return nil, err
			}
			params = append(params, e)
			if self.L.Token == TkComma {
				self.L.Next()
				continue
			}
			if self.L.Token != TkRPar {
				return nil, self.err("expect a ',' or ')' in call argument list")
			}
			break
		}
	}
	self.L.Next()

	return &Call{
		Name:       ref.Id,
		Parameters: params,
		CodeInfo:   self.exprCodeInfo(start),
	}, nil
}

func (self *Parser) parsePrimary() (Expr, error) {
	start := self.tokenOrigin()

	switch self.L.Token {
	case TkTrue, TkFalse:
		c := &Const{
			Ty:   ConstBool,
			Bool: self.L.Token == TkTrue,
		}
		self.L.Next()
		c.CodeInfo = self.exprCodeInfo(start)
		return c, nil

	case TkNull:
		self.L.Next()
		return &Const{
			Ty:       ConstNull,
			CodeInfo: self.exprCodeInfo(start),
		}, nil

	case TkStr:
		str := self.L.Lexeme.Text
		self.L.Next()
		return &Const{
			Ty:       ConstStr,
			String:   str,
			CodeInfo: self.exprCodeInfo(start),
		}, nil

	case TkInt:
		v := self.L.Lexeme.Int
		self.L.Next()
		return &Const{
			Ty:       ConstInt,
			Int:      v,
			CodeInfo: self.exprCodeInfo(start),
		}, nil

	case TkReal:
		v := self.L.Lexeme.Real
		self.L.Next()
		return &Const{
			Ty:       ConstReal,
			Real:     v,
			CodeInfo: self.exprCodeInfo(start),
		}, nil

	case TkId:
		ref := &Ref{
			Id:   self.L.Lexeme.Text,
			Qual: self.L.Lexeme.Qual,
		}
		self.L.Next()
		ref.CodeInfo = self.exprCodeInfo(start)
		if self.L.Token == TkLPar {
			return self.parseCall(ref, start)
		}
		return ref, nil

	case TkLPar:
		self.L.Next()
		e, err := self.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := self.expect(TkRPar); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return nil, self.err("unexpected token for expression")
	}
}

// ----------------------------------------------------------------------------
// code info tracking. The lexer is always one token ahead, so the origin of
// the current token is tracked by the parser itself

func (self *Parser) tokenOrigin() int {
	return self.L.tokenStart
}

func (self *Parser) exprCodeInfo(start int) CodeInfo {
	end := self.L.tokenStart
	if self.L.Token == TkEof {
		end = len(self.L.Source)
	}
	if end < start {
		end = start
	}
	return CodeInfo{
		Start:   start,
		End:     end,
		Snippet: strings.TrimSpace(self.L.Source[start:end]),
	}
}
