// Package source provides the base relations the MF engine scans. Every
// source is materialized into a Memory snapshot, so it can be scanned n+1
// times, concurrently if needed, always yielding the same rows in the same
// order.
package source

import (
	"github.com/Bkendle1/CS562-ESQL/mf"
)

type Memory struct {
	columns []string
	rows    []mf.Row
}

func NewMemory(columns []string) *Memory {
	return &Memory{
		columns: columns,
		rows:    []mf.Row{},
	}
}

func (self *Memory) Columns() []string { return self.columns }
func (self *Memory) Len() int          { return len(self.rows) }

func (self *Memory) Append(row mf.Row) {
	self.rows = append(self.rows, row)
}

func (self *Memory) Scan(fn func(mf.Row) error) error {
	for _, r := range self.rows {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
