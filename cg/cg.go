// Package cg generates a standalone AWK program performing the MF evaluation
// of a schema. The program reads the comma separated data file once per scan,
// the file is therefore given n+1 times on the command line, see Args.
package cg

import (
	"fmt"
	"strings"

	"github.com/Bkendle1/CS562-ESQL/plan"
)

type Config struct {
	OutputSeparator string // separator of the printed fields, default is " "
	Header          bool   // print the output column names first
}

const defaultSeparator = " "

func Generate(x *plan.Schema, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}
	sep := config.OutputSeparator
	if sep == "" {
		sep = defaultSeparator
	}
	g := &queryCodeGen{
		schema:    x,
		separator: sep,
		header:    config.Header,
	}
	return g.Gen()
}

// Args returns the operands of the generated program, the data file once per
// scan
func Args(x *plan.Schema, path string) []string {
	out := []string{}
	for i := 0; i <= x.N; i++ {
		out = append(out, path)
	}
	return out
}

// codegen from schema to *awk* code
type queryCodeGen struct {
	schema    *plan.Schema
	separator string
	header    bool
}

func (self *queryCodeGen) Gen() (string, error) {
	tableScan, err := self.genTableScan()
	if err != nil {
		return "", err
	}

	scans := strings.Builder{}
	for i := 0; i <= self.schema.N; i++ {
		x, err := self.genScan(i)
		if err != nil {
			return "", err
		}
		scans.WriteString(x)
		scans.WriteString("\n")
	}

	output, err := self.genOutput()
	if err != nil {
		return "", err
	}

	// finally our skeleton will be done here
	return fmt.Sprintf(
		`
# -----------------------------------------------------------------
# Globals
# -----------------------------------------------------------------
BEGIN {
  FS = ",";
  CONVFMT = "%%.15g";
  OFMT = "%%.15g";
  pass = -1;
  ngroup = 0;
  nskipped = 0;
  failed = 0;
}

# -----------------------------------------------------------------
# Table Scan
# -----------------------------------------------------------------
%s
END {
  if (failed) {
    exit 2;
  }
  output();
}

# -----------------------------------------------------------------
# scan
# -----------------------------------------------------------------
%s
# -----------------------------------------------------------------
# output
# -----------------------------------------------------------------
%s
# -----------------------------------------------------------------
# builtins
# -----------------------------------------------------------------
%s`,
		tableScan,
		scans.String(),
		output,
		builtinAWK,
	), nil
}
