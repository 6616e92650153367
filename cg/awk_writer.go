package cg

import (
	"fmt"
	"strings"
)

// A special template writer used for *AWK* source code dump. One writer
// generates exactly one AWK function, the body is buffered since the function
// protocol can only be written once all the locals are known.
//
// The template accepts one kind of substitution, %[name], which is replaced
// by the value of name inside of the context. A nil context writes the
// template as is.

type awkWriterCtx map[string]interface{}

type awkWriter struct {
	indent     int              // current indent level for formatting
	buf        *strings.Builder // body of the function
	local      []string         // locals, declared as trailing parameters
	localIndex map[string]bool  // used to dedup
	param      []string         // real parameters
	funcName   string
}

func newAwkWriter(
	funcName string,
	param ...string,
) *awkWriter {
	return &awkWriter{
		indent:     1,
		buf:        &strings.Builder{},
		localIndex: make(map[string]bool),
		param:      param,
		funcName:   funcName,
	}
}

func (self *awkWriter) HasLocal(l string) bool {
	_, ok := self.localIndex[l]
	return ok
}

func (self *awkWriter) Local(
	n string,
) string {
	if !self.HasLocal(n) {
		self.local = append(self.local, n)
		self.localIndex[n] = true
	}
	return n
}

func (self *awkWriter) LocalN(
	prefix string,
	idx int,
) string {
	return self.Local(fmt.Sprintf("%s_%d", prefix, idx))
}

// Fmt performs the %[name] substitution, an unknown name is a bug of the
// code generator
func (self *awkWriter) Fmt(
	tpl string,
	ctx awkWriterCtx,
) string {
	buf := strings.Builder{}
	for {
		start := strings.Index(tpl, "%[")
		if start < 0 {
			buf.WriteString(tpl)
			break
		}
		end := strings.Index(tpl[start:], "]")
		if end < 0 {
			panic(fmt.Sprintf("awk writer: unterminated substitution in %q", tpl))
		}
		name := tpl[start+2 : start+end]
		v, ok := ctx[name]
		if !ok {
			panic(fmt.Sprintf("awk writer: variable(%s) is not found", name))
		}
		buf.WriteString(tpl[:start])
		buf.WriteString(fmt.Sprint(v))
		tpl = tpl[start+end+1:]
	}
	return buf.String()
}

func (self *awkWriter) writeIndent() {
	self.buf.WriteString(strings.Repeat("  ", self.indent))
}

func (self *awkWriter) Line(
	tpl string,
	ctx awkWriterCtx,
) {
	self.writeIndent()
	if ctx == nil {
		self.buf.WriteString(tpl)
	} else {
		self.buf.WriteString(self.Fmt(tpl, ctx))
	}
	self.buf.WriteString("\n")
}

func (self *awkWriter) Assign(
	lhs string,
	rhs string,
	ctx awkWriterCtx,
) {
	self.Line(lhs+" = "+rhs+";", ctx)
}

// Open writes a line ending with a left brace and indents the following lines
func (self *awkWriter) Open(
	tpl string,
	ctx awkWriterCtx,
) {
	self.Line(tpl+" {", ctx)
	self.indent++
}

func (self *awkWriter) Close() {
	self.indent--
	self.Line("}", nil)
}

// Chunk writes a multi line template, the common leading indentation of the
// template is replaced by the current indentation
func (self *awkWriter) Chunk(
	tpl string,
	ctx awkWriterCtx,
) {
	lines := strings.Split(strings.Trim(tpl, "\n"), "\n")
	strip := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if strip < 0 || n < strip {
			strip = n
		}
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		self.Line(l[strip:], ctx)
	}
}

func (self *awkWriter) Flush() string {
	sig := strings.Join(self.param, ", ")
	if len(self.local) > 0 {
		if sig != "" {
			sig += ","
		}
		sig += "    " + strings.Join(self.local, ", ")
	}
	return fmt.Sprintf(
		"function %s(%s) {\n%s}\n",
		self.funcName,
		sig,
		self.buf.String(),
	)
}
