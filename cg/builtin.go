package cg

// helpers of the generated program. The empty string is null, every operator
// returns null when one of its operands is null, AND/OR follow three valued
// logic. Messages go to the stderr of the interpreter through a pipe, goawk
// does not know /dev/stderr.
const builtinAWK = `
function show(v) {
  if (v == "") {
    return "NULL";
  }
  return v "";
}

function warn(msg) {
  printf("esql: %s\n", msg) | "cat 1>&2";
}

function missing(name) {
  warn(sprintf("attribute %s is not found in the header of %s", name, FILENAME));
  close("cat 1>&2");
  failed = 1;
  exit 2;
}

function skipped(scan, key) {
  gsub(SUBSEP, ", ", key);
  warn(sprintf("scan %d: group (%s) is not registered by scan 0, row skipped", scan, key));
  nskipped++;
}

function op_add(a, b) { return (a == "" || b == "") ? "" : a + b; }
function op_sub(a, b) { return (a == "" || b == "") ? "" : a - b; }
function op_mul(a, b) { return (a == "" || b == "") ? "" : a * b; }
function op_div(a, b) { return (a == "" || b == "" || b == 0) ? "" : a / b; }
function op_mod(a, b) { return (a == "" || b == "" || b == 0) ? "" : a % b; }
function op_neg(a) { return a == "" ? "" : -a; }
function op_not(a) { return a == "" ? "" : !a; }

function op_lt(a, b) { return (a == "" || b == "") ? "" : (a < b); }
function op_le(a, b) { return (a == "" || b == "") ? "" : (a <= b); }
function op_gt(a, b) { return (a == "" || b == "") ? "" : (a > b); }
function op_ge(a, b) { return (a == "" || b == "") ? "" : (a >= b); }
function op_eq(a, b) { return (a == "" || b == "") ? "" : (a == b); }
function op_ne(a, b) { return (a == "" || b == "") ? "" : (a != b); }

function op_and(a, b) {
  if ((a != "" && !a) || (b != "" && !b)) {
    return 0;
  }
  if (a == "" || b == "") {
    return "";
  }
  return 1;
}

function op_or(a, b) {
  if ((a != "" && a) || (b != "" && b)) {
    return 1;
  }
  if (a == "" || b == "") {
    return "";
  }
  return 0;
}

function op_like(a, re) { return a == "" ? "" : (a ~ re); }

function fn_lower(a) { return a == "" ? "" : tolower(a); }
function fn_upper(a) { return a == "" ? "" : toupper(a); }
function fn_length(a) { return a == "" ? "" : length(a); }
function fn_abs(a) { return a == "" ? "" : (a < 0 ? -a : a + 0); }
`
