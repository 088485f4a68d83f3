// Package sandbox executes a target Go script in an isolated interpreter,
// capturing everything it writes to stdout and stderr in emission order.
//
// Instead of shelling out to `go run` (which can hang on module resolution,
// crash on toolchain mismatches, or leave stray binaries behind), the target
// is interpreted with Yaegi. Each Execute call builds a fresh interpreter, so
// import resolution state is scoped to one run and released when it returns:
// nothing process-wide is mutated.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"snooper/internal/logging"
)

// ErrInvalidTarget is returned when the target path does not reference an
// existing, readable, non-directory file. Validation happens before any
// execution attempt.
var ErrInvalidTarget = errors.New("invalid target")

// Fault describes an uncaught failure raised by the target during execution.
// It is data, not an error: a faulting target still produces a usable trace.
type Fault struct {
	Kind    string // "panic", "runtime error", "timeout"
	Message string
	Stack   string // call chain leading to the fault, empty if unavailable
}

// Format renders the fault the way it appears at the end of a trace:
// kind and message first, call chain last.
func (f *Fault) Format() string {
	var b strings.Builder
	b.WriteString(f.Kind)
	b.WriteString(": ")
	b.WriteString(f.Message)
	if f.Stack != "" {
		b.WriteString("\n\ncall chain:\n")
		b.WriteString(strings.TrimRight(f.Stack, "\n"))
	}
	return b.String()
}

// Result holds everything observable about one execution attempt.
type Result struct {
	// Output is the interleaved stdout+stderr of the target, in the order
	// the target wrote to either stream.
	Output string

	// Fault is non-nil when the target did not complete normally.
	Fault *Fault
}

// Executor runs target scripts. The zero value is usable.
type Executor struct {
	// Timeout aborts a run that exceeds it. Zero means no limit: a hung
	// target hangs the session.
	Timeout time.Duration
}

// NewExecutor creates an executor with no timeout.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the Go script at path to completion (or to its first uncaught
// fault) and returns the captured output. A staging GoPath whose src points
// at the target's directory is built for the duration of the run, so the
// target's sibling packages resolve as local imports; both the staging
// directory and the interpreter are discarded afterwards.
//
// Faults raised by the target are intercepted and returned in Result.Fault,
// never as an error. The only error paths are target validation and timeout
// plumbing. Execution is not idempotent: calling Execute again re-runs the
// target from scratch in a fresh interpreter.
func (e *Executor) Execute(ctx context.Context, path string) (*Result, error) {
	if err := validateTarget(path); err != nil {
		return nil, err
	}

	timer := logging.StartTimer(logging.CategorySandbox, "execute "+filepath.Base(path))
	defer timer.Stop()

	if e.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.Timeout)
			defer cancel()
		}
	}

	gopath, cleanup, err := stageGoPath(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// One shared sink for both streams preserves interleaving order.
	sink := &lockedBuffer{}

	i := interp.New(interp.Options{
		GoPath: gopath,
		Stdout: sink,
		Stderr: sink,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}

	logging.SandboxDebug("running %s (gopath=%s)", path, gopath)

	faultChan := make(chan *Fault, 1)

	go func() {
		faultChan <- evalTarget(i, path)
	}()

	select {
	case fault := <-faultChan:
		if fault != nil {
			logging.Sandbox("target faulted: %s: %s", fault.Kind, fault.Message)
		}
		return &Result{Output: sink.String(), Fault: fault}, nil
	case <-ctx.Done():
		// The eval goroutine cannot be stopped; snapshot what the target
		// wrote so far and fold the timeout into the trace.
		logging.Sandbox("target timed out: %v", ctx.Err())
		return &Result{
			Output: sink.String(),
			Fault: &Fault{
				Kind:    "timeout",
				Message: fmt.Sprintf("target did not complete: %v", ctx.Err()),
			},
		}, nil
	}
}

// evalTarget runs the script and converts any uncaught failure into a Fault.
// Returns nil on normal completion.
func evalTarget(i *interp.Interpreter, path string) (fault *Fault) {
	defer func() {
		if r := recover(); r != nil {
			fault = &Fault{
				Kind:    "panic",
				Message: fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			}
		}
	}()

	_, err := i.EvalPath(path)
	if err == nil {
		return nil
	}

	var p interp.Panic
	if errors.As(err, &p) {
		return &Fault{
			Kind:    "panic",
			Message: fmt.Sprint(p.Value),
			Stack:   string(p.Stack),
		}
	}

	// Non-panic evaluation failure: undefined symbols, bad syntax, failed
	// imports. No target call chain exists for these.
	return &Fault{
		Kind:    "runtime error",
		Message: err.Error(),
	}
}

// stageGoPath builds a throwaway GoPath whose src entry points at dir. The
// interpreter looks local imports up under GoPath/src/<pkg>, so mapping src
// to the target's directory makes the target's sibling packages importable
// by name. The returned cleanup removes the staging directory.
func stageGoPath(dir string) (string, func(), error) {
	tmp, err := os.MkdirTemp("", "snooper-gopath-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to stage gopath: %w", err)
	}
	if err := os.Symlink(dir, filepath.Join(tmp, "src")); err != nil {
		os.RemoveAll(tmp)
		return "", nil, fmt.Errorf("failed to stage gopath: %w", err)
	}
	return tmp, func() { os.RemoveAll(tmp) }, nil
}

// validateTarget checks the path before any execution attempt.
func validateTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrInvalidTarget, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidTarget, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidTarget, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s is not readable: %v", ErrInvalidTarget, path, err)
	}
	f.Close()
	return nil
}

// lockedBuffer is a mutex-guarded bytes.Buffer. The eval goroutine keeps
// writing after a timeout while the caller snapshots the output.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
