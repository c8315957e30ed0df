package execx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

const maxStderr = 4096

// Runner executes provisioning steps one at a time, without a shell.
// Every non-tolerant failure is fatal to the run: the resulting *StepError
// bubbles up to main, which is the only place that terminates the process.
type Runner struct {
	log zerolog.Logger
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes a single step synchronously. No deadline is set on the
// context by default; provisioning commands are allowed to block until they
// finish.
func (r *Runner) Run(ctx context.Context, step Step) error {
	r.log.Info().Str("step", step.Name).Msg(step.Description)

	cmd := exec.CommandContext(ctx, step.Cmd, step.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	code := -1
	if ee, ok := err.(*exec.ExitError); ok {
		code = ee.ExitCode()
	}

	if step.Tolerant {
		r.log.Debug().Str("step", step.Name).Int("code", code).Msg("ignoring failure of tolerant step")
		return nil
	}

	serr := &StepError{Step: step, Code: code, Stderr: truncate(stderr.String(), maxStderr)}
	r.log.Error().
		Str("step", step.Name).
		Str("command", step.Argv()).
		Int("code", code).
		Msg(strings.TrimSpace(serr.Stderr))
	return serr
}

// RunAll executes steps in order and stops at the first fatal failure.
// Later steps are never started once an earlier one has failed.
func (r *Runner) RunAll(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := r.Run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// Capture runs a command and returns its stdout, for probes whose output is
// inspected rather than provisioning steps.
func (r *Runner) Capture(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
