package execx

import (
	"fmt"
	"strings"
)

// Step is one provisioning command in the pipeline. Steps are built once and
// never mutated; the order of a step slice is the order of execution.
type Step struct {
	Name        string
	Cmd         string
	Args        []string
	Description string

	// Tolerant marks steps whose failure counts as success, e.g. creating a
	// group or network that may already exist.
	Tolerant bool
}

// Argv returns the full command line for logs and error messages.
func (s Step) Argv() string {
	if len(s.Args) == 0 {
		return s.Cmd
	}
	return s.Cmd + " " + strings.Join(s.Args, " ")
}

// StepError is a fatal command failure. It carries everything the top-level
// handler needs to report before terminating the run.
type StepError struct {
	Step   Step
	Code   int
	Stderr string
}

func (e *StepError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("step %s: %q exited with code %d", e.Step.Name, e.Step.Argv(), e.Code)
	}
	return fmt.Sprintf("step %s: %q exited with code %d: %s", e.Step.Name, e.Step.Argv(), e.Code, strings.TrimSpace(e.Stderr))
}
