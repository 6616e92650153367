package plan

// The following documentation describes how a phi operand set is turned into
// the evaluation schema, and how the schema is executed.
//
// The schema contains n+1 scans, which are executed sequentially over the
// same base relation.
//
// 1) Scan 0
//    The standard grouping. Every row of the base relation is projected onto
//    the grouping attributes V, the MF table is searched for the tuple and a
//    new MF row is appended when it is missing. Then every aggregate owned by
//    0 is folded into the row.
//
// 2) Scan i, 1 <= i <= n
//    For each row, sigma_i is evaluated and the row is skipped when it does
//    not hold. Otherwise the tuple of V is looked up, a missing tuple does not
//    create a row but emits a warning diagnostic, and every aggregate owned by
//    i is folded.
//
//    Example, sigma_1 = state = 'NY' and F = 1_sum_quant
//
//    for (r in sales) {
//      if (!(r.state == 'NY')) continue;
//      row = lookup(r.cust)
//      if (!found(row)) { warn; continue }
//      row.1_sum_quant += r.quant
//    }
//
// 3) Finalize
//    Aggregate states are turned into values, avg is sum/count and null when
//    count is 0, min/max never updated are null.
//
// 4) Having
//    G is evaluated against the finalized MF row, the row is dropped when it
//    does not hold.
//
// 5) Output
//    The select list S is evaluated against the finalized MF row, rows are
//    emitted in MF table insertion order, ie the order in which the tuple of V
//    showed up first during scan 0.
//
// The aggregates are stored in slots ordered by owner, so each scan folds a
// contiguous range of slots of every MF row and no two scans touch the same
// slot.
