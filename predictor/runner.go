// Package predictor runs the external demand prediction process.
package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"inventory/config"
)

// waitDelay bounds how long Run waits for the output pipes once a timed out
// process has been killed.
const waitDelay = 5 * time.Second

// Runner runs one prediction for an item and a date.
type Runner interface {
	Run(ctx context.Context, itemID, date string) (Result, error)
}

// Result is everything the process wrote before it exited.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithStderr copies the child's stderr to w as it arrives.
func WithStderr(w io.Writer) Option {
	return func(r *ExecRunner) {
		r.stderrSink = w
	}
}

// ExecRunner spawns the configured command once per Run.
type ExecRunner struct {
	cmd        []string
	workDir    string
	timeout    time.Duration
	stderrSink io.Writer
}

// NewRunner constructs a runner for the given predictor config.
func NewRunner(cfg config.PredictorConfig, opts ...Option) (*ExecRunner, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, ErrEmptyCommand
	}

	r := &ExecRunner{
		cmd:     append([]string(nil), cfg.Command...),
		workDir: cfg.WorkDir,
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run starts the process with itemID and date appended to the command as
// separate arguments and reads both output streams until it exits. No shell
// is involved.
//
// A process that cannot be started yields a *StartError. A non-zero exit,
// including a kill after the configured timeout, yields ErrProcessFailed.
// The returned Result is populated in both cases.
func (r *ExecRunner) Run(ctx context.Context, itemID, date string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := make([]string, 0, len(r.cmd)+2)
	argv = append(argv, r.cmd...)
	argv = append(argv, itemID, date)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.workDir
	if r.timeout > 0 {
		cmd.WaitDelay = waitDelay
	}

	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
	)

	cmd.Stdout = &stdout
	if r.stderrSink != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.stderrSink)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Start(); err != nil {
		return Result{}, &StartError{Err: err}
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return res, fmt.Errorf("exit code %d: %w", res.ExitCode, errors.Join(ErrProcessFailed, err))
	}

	// Output copy failures after a clean start.
	res.ExitCode = -1
	return res, fmt.Errorf("wait: %w", errors.Join(ErrProcessFailed, err))
}
