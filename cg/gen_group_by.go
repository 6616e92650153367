package cg

import (
	"strings"
)

// Group index generation
// ----------------------------------------------------------------------------
// The MF table is keyed by the grouping attribute tuple, joined with SUBSEP.
// The *grp* table maps the key to its row number and *order* keeps the keys
// in the order scan 0 first saw them, which is the output order.
//
// Scan 0 is the only scan allowed to insert, the other scans look the key up
// and skip the row when the group is not there.

func (self *queryCodeGen) groupKey() string {
	ga := self.schema.GroupingAttributes
	if len(ga) == 0 {
		return "\"\""
	}
	parts := []string{}
	for _, x := range ga {
		parts = append(parts, self.field(x))
	}
	if len(parts) == 1 {
		return parts[0] + " \"\""
	}
	return strings.Join(parts, " SUBSEP ")
}

func (self *queryCodeGen) genGroupInsert(w *awkWriter) {
	w.Assign(w.Local("key"), self.groupKey(), nil)
	w.Chunk(
		`
if (!(key in grp)) {
  ngroup++;
  grp[key] = ngroup;
  order[ngroup] = key;
}
`,
		nil,
	)
}

func (self *queryCodeGen) genGroupLookup(w *awkWriter, scan int) {
	w.Assign(w.Local("key"), self.groupKey(), nil)
	w.Chunk(
		`
if (!(key in grp)) {
  skipped(%[scan], key);
  return;
}
`,
		awkWriterCtx{
			"scan": scan,
		},
	)
}
