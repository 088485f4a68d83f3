// Package session orchestrates one debugging session: run the target under
// capture, assemble the trace, resolve a backend, and ask it the question.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"snooper/internal/config"
	"snooper/internal/logging"
	"snooper/internal/provider"
	"snooper/internal/sandbox"
	"snooper/internal/trace"
)

// Options carries the operator's inputs for one run.
type Options struct {
	TargetPath string
	Question   string
	APIKey     string // optional explicit credential, primary backend only
}

// Outcome is what one completed session produced.
type Outcome struct {
	ID       string         // session correlation id
	Trace    trace.Artifact // consumed by the provider, surfaced if requested
	Faulted  bool           // target raised an uncaught fault
	Answer   string
	Provider provider.Kind // backend that actually answered
	Model    string
	Elapsed  time.Duration
}

// Resolver constructs an analysis backend. Wired to provider.Resolve in
// production; tests substitute fakes.
type Resolver func(cfg *config.Config, explicitKey string) (provider.AnalysisClient, provider.Kind, error)

// Session ties the pipeline together. Configuration is immutable for the
// session's duration; one Session is meant to serve one process lifetime.
type Session struct {
	cfg      *config.Config
	executor *sandbox.Executor
	resolve  Resolver
}

// New creates a session over a loaded, validated configuration.
func New(cfg *config.Config, executor *sandbox.Executor) *Session {
	return &Session{
		cfg:      cfg,
		executor: executor,
		resolve:  provider.Resolve,
	}
}

// WithResolver overrides backend resolution (tests).
func (s *Session) WithResolver(r Resolver) *Session {
	s.resolve = r
	return s
}

// Run executes the pipeline: sandbox -> trace -> resolve -> analyze.
// A faulting target is folded into the trace and never terminates the run;
// every other failure is returned to the caller, which exits non-zero.
func (s *Session) Run(ctx context.Context, opts Options) (*Outcome, error) {
	id := uuid.NewString()
	start := time.Now()
	logging.Session("[%s] starting: target=%s", id, opts.TargetPath)

	res, err := s.executor.Execute(ctx, opts.TargetPath)
	if err != nil {
		return nil, err
	}

	artifact := trace.FromResult(res)
	logging.SessionDebug("[%s] trace assembled: %d bytes (faulted=%v)", id, len(artifact), res.Fault != nil)

	client, kind, err := s.resolve(s.cfg, opts.APIKey)
	if err != nil {
		return nil, err
	}

	answer, err := client.AnalyzeTrace(ctx, artifact.String(), opts.Question)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		ID:       id,
		Trace:    artifact,
		Faulted:  res.Fault != nil,
		Answer:   answer,
		Provider: kind,
		Model:    client.GetModel(),
		Elapsed:  time.Since(start),
	}
	logging.Session("[%s] completed in %v via %s", id, outcome.Elapsed, kind)
	return outcome, nil
}
