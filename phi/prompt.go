package phi

import (
	"github.com/peterh/liner"
)

// Prompter asks for one line of input
type Prompter interface {
	Prompt(string) (string, error)
}

var promptText = []string{
	"List all select attributes: ",
	"Number of grouping variables: ",
	"List all grouping attributes: ",
	"List all aggregates: ",
	"List grouping variable predicates: ",
	"List predicates for output of GROUP BY: ",
}

// LoadPrompt asks the six operands one by one
func LoadPrompt(p Prompter) (*Spec, error) {
	operands := []string{}
	for field := 0; field < fieldSize; field++ {
		line, err := p.Prompt(promptText[field])
		if err != nil {
			return nil, &LoadError{
				Field: FieldLabel(field),
				Err:   err,
			}
		}
		operands = append(operands, line)
	}
	return FromOperands(operands)
}

// LinerPrompter is the terminal prompter with line editing and history
type LinerPrompter struct {
	state *liner.State
}

func NewLinerPrompter() *LinerPrompter {
	s := liner.NewLiner()
	s.SetCtrlCAborts(true)
	return &LinerPrompter{
		state: s,
	}
}

func (self *LinerPrompter) Prompt(p string) (string, error) {
	line, err := self.state.Prompt(p)
	if err != nil {
		return "", err
	}
	if line != "" {
		self.state.AppendHistory(line)
	}
	return line, nil
}

func (self *LinerPrompter) Close() error {
	return self.state.Close()
}
