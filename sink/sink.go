// Package sink renders the projected MF result
package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/mf"
)

const (
	FormatTable = iota
	FormatCSV
	FormatJSON
)

type Sink interface {
	Write(io.Writer, *mf.Result) error
}

func ParseFormat(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return -1, fmt.Errorf("unknown output format %q, expect table, csv or json", name)
	}
}

// New returns the sink of a format, color only matters for table
func New(format int, color bool) Sink {
	switch format {
	case FormatCSV:
		return &CSV{}
	case FormatJSON:
		return &JSON{}
	default:
		return &Table{
			Color: color,
		}
	}
}
