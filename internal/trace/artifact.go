// Package trace turns one execution attempt into a single linear artifact:
// the target's interleaved output, followed by a failure section when the
// target did not complete normally.
package trace

import (
	"strings"

	"snooper/internal/logging"
	"snooper/internal/sandbox"
)

// FaultMarker introduces the failure section of an artifact. The literal is
// part of the artifact format; analysis prompts and tests rely on it.
const FaultMarker = "Error occurred:"

// Artifact is a single block of text representing everything observable
// about one execution attempt. It is consumed exactly once by a provider and
// never persisted here.
type Artifact string

// String returns the artifact text.
func (a Artifact) String() string { return string(a) }

// Assemble merges captured output and an optional fault into one artifact.
// Pure concatenation: output, then iff a fault is present, two blank lines,
// the marker, and the fault's formatted description. No truncation, no size
// cap.
func Assemble(output string, fault *sandbox.Fault) Artifact {
	if fault == nil {
		return Artifact(output)
	}

	var b strings.Builder
	b.WriteString(output)
	b.WriteString("\n\n")
	b.WriteString(FaultMarker)
	b.WriteString("\n")
	b.WriteString(fault.Format())

	logging.Get(logging.CategoryTrace).Debug("assembled artifact: %d output bytes + fault (%s)", len(output), fault.Kind)
	return Artifact(b.String())
}

// FromResult assembles an artifact straight from a sandbox result.
func FromResult(res *sandbox.Result) Artifact {
	return Assemble(res.Output, res.Fault)
}
