package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func doAwk(assert *assert.Assertions, table string, query string) int {
	opt := &options{}
	cmd := newRootCmd(opt)
	assert.True(cmd.Flags().Parse([]string{"--csv", table, "--awk", "--env-file", ""}) == nil)
	return run(cmd, opt, []string{query})
}

// the status of the AWK program is returned to main instead of exiting
func TestRunAwkStatus(t *testing.T) {
	assert := assert.New(t)
	query := writeFile(t, "total.phi", "cust, total\n0\ncust\n0_sum_qty as total\n")
	{
		table := writeFile(t, "sales.csv", "cust,qty\nSam,10\nSam,20\nDan,5\n")
		assert.Equal(0, doAwk(assert, table, query))
	}
	{
		table := writeFile(t, "sales.csv", "cust,quant\nSam,10\n")
		assert.Equal(2, doAwk(assert, table, query))
	}
}
