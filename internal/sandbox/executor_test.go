package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops a Go script into a temp dir and returns its path.
func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestExecute_CapturesOutputInOrder(t *testing.T) {
	path := writeScript(t, "ok.go", `package main

import "fmt"

func main() {
	fmt.Println("a")
	fmt.Println("b")
}
`)

	res, err := NewExecutor().Execute(context.Background(), path)
	require.NoError(t, err)
	require.Nil(t, res.Fault)
	assert.Equal(t, "a\nb\n", res.Output)
}

func TestExecute_InterleavesStdoutAndStderr(t *testing.T) {
	path := writeScript(t, "mixed.go", `package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stdout, "out1")
	fmt.Fprintln(os.Stderr, "err1")
	fmt.Fprintln(os.Stdout, "out2")
}
`)

	res, err := NewExecutor().Execute(context.Background(), path)
	require.NoError(t, err)
	require.Nil(t, res.Fault)
	assert.Equal(t, "out1\nerr1\nout2\n", res.Output)
}

func TestExecute_ResolvesSiblingPackage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "util"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util", "util.go"), []byte(`package util

func Greet() string { return "hi from util" }
`), 0644))

	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte(`package main

import (
	"fmt"

	"util"
)

func main() {
	fmt.Println(util.Greet())
}
`), 0644))

	res, err := NewExecutor().Execute(context.Background(), path)
	require.NoError(t, err)
	require.Nil(t, res.Fault, "a package beside the target must be importable by name")
	assert.Equal(t, "hi from util\n", res.Output)
}

func TestExecute_CapturesPanic(t *testing.T) {
	path := writeScript(t, "boom.go", `package main

import "fmt"

func explode() {
	panic("boom")
}

func main() {
	fmt.Println("before")
	explode()
	fmt.Println("after")
}
`)

	res, err := NewExecutor().Execute(context.Background(), path)
	require.NoError(t, err, "a faulting target must not fail the execution call")
	require.NotNil(t, res.Fault)

	assert.Equal(t, "panic", res.Fault.Kind)
	assert.Contains(t, res.Fault.Message, "boom")
	assert.Contains(t, res.Output, "before\n")
	assert.NotContains(t, res.Output, "after")
}

func TestExecute_FaultFormatEndsWithCallChain(t *testing.T) {
	f := &Fault{Kind: "panic", Message: "boom", Stack: "main.explode()\nmain.main()\n"}
	formatted := f.Format()

	assert.Contains(t, formatted, "panic: boom")
	assert.True(t, len(formatted) > len("panic: boom"), "call chain expected after the message")
	assert.Contains(t, formatted, "call chain:")
	assert.Contains(t, formatted, "main.explode()")
}

func TestExecute_MissingTarget(t *testing.T) {
	res, err := NewExecutor().Execute(context.Background(), filepath.Join(t.TempDir(), "nope.go"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	assert.Nil(t, res, "no partial trace for an invalid target")
}

func TestExecute_DirectoryTarget(t *testing.T) {
	res, err := NewExecutor().Execute(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	assert.Nil(t, res)
}

func TestExecute_RerunIsIndependent(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(data, []byte("first"), 0644))

	path := filepath.Join(dir, "reader.go")
	src := `package main

import (
	"fmt"
	"os"
)

func main() {
	b, err := os.ReadFile(` + "`" + data + "`" + `)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(b))
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	exec := NewExecutor()

	res1, err := exec.Execute(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", res1.Output)

	require.NoError(t, os.WriteFile(data, []byte("second"), 0644))

	res2, err := exec.Execute(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", res2.Output, "no caching across invocations")
	assert.Equal(t, "first\n", res1.Output, "earlier artifact unchanged")
}

func TestExecute_BrokenScriptBecomesFault(t *testing.T) {
	path := writeScript(t, "broken.go", `package main

func main() {
	this is not go
}
`)

	res, err := NewExecutor().Execute(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, res.Fault)
	assert.Equal(t, "runtime error", res.Fault.Kind)
	assert.NotEmpty(t, res.Fault.Message)
}

func TestExecute_Timeout(t *testing.T) {
	path := writeScript(t, "spin.go", `package main

import "fmt"

func main() {
	fmt.Println("started")
	for {
	}
}
`)

	exec := NewExecutor()
	exec.Timeout = 200 * time.Millisecond

	start := time.Now()
	res, err := exec.Execute(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, res.Fault)

	assert.Equal(t, "timeout", res.Fault.Kind)
	assert.Contains(t, res.Output, "started")
	assert.Less(t, time.Since(start), 5*time.Second)
}
