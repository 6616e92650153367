package mf

import (
	"fmt"
)

// PassHaving is the pass number reported for failures of the having predicate
const PassHaving = -1

// EvaluationError aborts the evaluation. Attribute is the offending attribute
// when the failure is about one.
type EvaluationError struct {
	Pass      int
	Attribute string
	Err       error
}

func (self *EvaluationError) stage() string {
	if self.Pass == PassHaving {
		return "having"
	}
	return fmt.Sprintf("scan %d", self.Pass)
}

func (self *EvaluationError) Error() string {
	if self.Attribute != "" {
		return fmt.Sprintf("stage(%s): attribute %q: %s", self.stage(), self.Attribute, self.Err)
	}
	return fmt.Sprintf("stage(%s): %s", self.stage(), self.Err)
}

func (self *EvaluationError) Unwrap() error {
	return self.Err
}

// ProjectionError is raised by the projector before any output row is
// produced
type ProjectionError struct {
	Name string
	Err  error
}

func (self *ProjectionError) Error() string {
	if self.Err != nil {
		return fmt.Sprintf("stage(project): column %q: %s", self.Name, self.Err)
	}
	return fmt.Sprintf("stage(project): unknown column %q", self.Name)
}

func (self *ProjectionError) Unwrap() error {
	return self.Err
}

// Diagnostic is a non fatal finding of the evaluation, ie a row accepted by a
// grouping variable predicate whose grouping tuple is not in the MF table
type Diagnostic struct {
	Pass int
	Key  string
	Msg  string
}

func (self Diagnostic) String() string {
	return fmt.Sprintf("scan %d: %s %s", self.Pass, self.Key, self.Msg)
}
