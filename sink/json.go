package sink

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"

	"github.com/Bkendle1/CS562-ESQL/mf"
)

// JSON writes an array of objects, keys keep the column order
type JSON struct{}

func (self *JSON) Write(w io.Writer, r *mf.Result) error {
	buf := &bytes.Buffer{}
	buf.WriteString("[")
	for idx, row := range r.Rows {
		if idx > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for i, v := range row {
			if i > 0 {
				buf.WriteString(", ")
			}
			k, err := json.Marshal(r.Columns[i])
			if err != nil {
				return err
			}
			x, err := json.Marshal(v.Interface())
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(x)
		}
		buf.WriteString("}")
	}
	if len(r.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}
