package cg

import (
	"fmt"
	"io"

	gawki "github.com/benhoyt/goawk/interp"
	gawkp "github.com/benhoyt/goawk/parser"
)

// Execute runs a generated program in process with goawk and returns its exit
// status, args are the data files, usually Args of the schema
func Execute(
	code string,
	args []string,
	stdout io.Writer,
	stderr io.Writer,
) (int, error) {
	prog, err := gawkp.ParseProgram(
		[]byte(code),
		nil,
	)
	if err != nil {
		return -1, fmt.Errorf("codegen(awk): %s", err)
	}

	interp, err := gawki.New(prog)
	if err != nil {
		return -1, err
	}
	config := &gawki.Config{
		Output: stdout,
		Error:  stderr,
		Args:   args,
	}
	return interp.Execute(config)
}
