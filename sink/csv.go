package sink

import (
	"encoding/csv"
	"io"

	"github.com/Bkendle1/CS562-ESQL/mf"
)

// CSV writes a header line and one record per row, null is an empty field
type CSV struct{}

func (self *CSV) Write(w io.Writer, r *mf.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(r.Columns); err != nil {
		return err
	}
	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, v := range row {
			if v.IsNull() {
				record[i] = ""
			} else {
				record[i] = v.String()
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
