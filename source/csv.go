package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/mf"
	"github.com/Bkendle1/CS562-ESQL/value"
)

// normalize the header into lower case attribute names
func header(names []string) ([]string, error) {
	out := []string{}
	seen := make(map[string]bool)
	for idx, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			return nil, fmt.Errorf("column %d has empty name", idx+1)
		}
		if seen[n] {
			return nil, fmt.Errorf("column %q is duplicated", n)
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

// ReadCSV loads a comma separated relation, the first line is the header.
// Fields are typed by value.Parse, an empty field is null.
func ReadCSV(r io.Reader) (*Memory, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: missing header line")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	columns, err := header(first)
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	m := NewMemory(columns)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		row := make(mf.Row, len(columns))
		for idx, name := range columns {
			row[name] = value.Parse(strings.TrimSpace(record[idx]))
		}
		m.Append(row)
	}
	return m, nil
}

func ReadCSVFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
