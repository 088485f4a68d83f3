package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"snooper/internal/config"
	"snooper/internal/provider"
	"snooper/internal/sandbox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClient records what the pipeline hands to the backend.
type fakeClient struct {
	kind     provider.Kind
	answer   string
	err      error
	gotTrace string
	gotQ     string
}

func (f *fakeClient) AnalyzeTrace(ctx context.Context, traceText, question string) (string, error) {
	f.gotTrace = traceText
	f.gotQ = question
	return f.answer, f.err
}

func (f *fakeClient) Kind() provider.Kind { return f.kind }
func (f *fakeClient) GetModel() string    { return "fake-model" }

func fixedResolver(c *fakeClient) Resolver {
	return func(cfg *config.Config, explicitKey string) (provider.AnalysisClient, provider.Kind, error) {
		return c, c.kind, nil
	}
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestRun_PassesExactTraceToBackend(t *testing.T) {
	path := writeScript(t, `package main

import "fmt"

func main() {
	fmt.Println("a")
	fmt.Println("b")
}
`)

	client := &fakeClient{kind: provider.KindClaude, answer: "looks fine"}
	sess := New(config.Default(), sandbox.NewExecutor()).WithResolver(fixedResolver(client))

	outcome, err := sess.Run(context.Background(), Options{
		TargetPath: path,
		Question:   "what happened?",
	})
	require.NoError(t, err)

	assert.Equal(t, "a\nb\n", client.gotTrace, "backend must receive the exact artifact")
	assert.Equal(t, "what happened?", client.gotQ)
	assert.Equal(t, "a\nb\n", outcome.Trace.String())
	assert.Equal(t, "looks fine", outcome.Answer)
	assert.Equal(t, provider.KindClaude, outcome.Provider)
	assert.False(t, outcome.Faulted)
	assert.NotEmpty(t, outcome.ID)
}

func TestRun_FaultingTargetStillAnalyzed(t *testing.T) {
	path := writeScript(t, `package main

import "fmt"

func main() {
	fmt.Println("before")
	panic("kaboom")
}
`)

	client := &fakeClient{kind: provider.KindOpenAI, answer: "it panicked"}
	sess := New(config.Default(), sandbox.NewExecutor()).WithResolver(fixedResolver(client))

	outcome, err := sess.Run(context.Background(), Options{TargetPath: path, Question: "why?"})
	require.NoError(t, err, "a faulting target must not terminate the session")

	assert.True(t, outcome.Faulted)
	assert.Contains(t, outcome.Trace.String(), "before")
	assert.Contains(t, outcome.Trace.String(), "Error occurred:")
	assert.Contains(t, outcome.Trace.String(), "kaboom")
	assert.Contains(t, client.gotTrace, "kaboom", "fault section reaches the backend")
	assert.Equal(t, "it panicked", outcome.Answer)
}

func TestRun_MarkerInOutputIsNotAFault(t *testing.T) {
	path := writeScript(t, `package main

import "fmt"

func main() {
	fmt.Print("log dump:\n\nError occurred:\nnone, actually\n")
}
`)

	client := &fakeClient{kind: provider.KindClaude, answer: "that is the target's own output"}
	sess := New(config.Default(), sandbox.NewExecutor()).WithResolver(fixedResolver(client))

	outcome, err := sess.Run(context.Background(), Options{TargetPath: path, Question: "did it fail?"})
	require.NoError(t, err)
	assert.False(t, outcome.Faulted, "fault status comes from execution, not from scanning the output")
}

func TestRun_InvalidTargetAbortsBeforeAnalysis(t *testing.T) {
	client := &fakeClient{kind: provider.KindClaude, answer: "unused"}
	sess := New(config.Default(), sandbox.NewExecutor()).WithResolver(fixedResolver(client))

	outcome, err := sess.Run(context.Background(), Options{
		TargetPath: filepath.Join(t.TempDir(), "missing.go"),
		Question:   "?",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sandbox.ErrInvalidTarget))
	assert.Nil(t, outcome)
	assert.Empty(t, client.gotTrace, "no analysis for an invalid target")
}

func TestRun_ResolveFailurePropagates(t *testing.T) {
	path := writeScript(t, `package main

func main() {}
`)

	wantErr := &provider.ResolveError{
		Primary:     provider.KindClaude,
		PrimaryErr:  provider.ErrMissingCredential,
		Fallback:    provider.KindOpenAI,
		FallbackErr: provider.ErrMissingCredential,
	}
	sess := New(config.Default(), sandbox.NewExecutor()).
		WithResolver(func(cfg *config.Config, explicitKey string) (provider.AnalysisClient, provider.Kind, error) {
			return nil, "", wantErr
		})

	_, err := sess.Run(context.Background(), Options{TargetPath: path, Question: "?"})
	require.Error(t, err)

	var resErr *provider.ResolveError
	assert.True(t, errors.As(err, &resErr))
}

func TestRun_AnalysisFailurePropagates(t *testing.T) {
	path := writeScript(t, `package main

func main() {}
`)

	client := &fakeClient{kind: provider.KindClaude, err: errors.New("API request failed with status 500")}
	sess := New(config.Default(), sandbox.NewExecutor()).WithResolver(fixedResolver(client))

	_, err := sess.Run(context.Background(), Options{TargetPath: path, Question: "?"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
