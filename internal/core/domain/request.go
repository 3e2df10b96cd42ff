package domain

import (
	"fmt"
	"path"
	"strings"
)

const (
	// DefaultEntryPoint is used when a request does not name its entry point.
	DefaultEntryPoint = "index.js"

	// CompileFailurePrefix starts every failed compilation result.
	CompileFailurePrefix = "Compilation failed: "

	// ExecuteFailurePrefix starts every failed script execution result.
	ExecuteFailurePrefix = "Failed to execute script: "
)

// BuildRequest is one compilation call. It is never persisted.
type BuildRequest struct {
	RawCode    string `json:"rawCode"`
	EntryPoint string `json:"entryPoint,omitempty"`
}

// Normalize returns a copy of the request with defaults applied.
func (r BuildRequest) Normalize() BuildRequest {
	if strings.TrimSpace(r.EntryPoint) == "" {
		r.EntryPoint = DefaultEntryPoint
	}
	return r
}

// EntryLoader returns the loader used for the raw source of the entry module.
// TypeScript entry points get tsx; everything else gets jsx, which also accepts plain JS.
func (r BuildRequest) EntryLoader() LoaderKind {
	switch strings.ToLower(path.Ext(r.EntryPoint)) {
	case ".ts", ".tsx":
		return LoaderTSX
	default:
		return LoaderJSX
	}
}

// BuildOutput is the tagged result of a compilation: a bundle or a failure reason.
type BuildOutput struct {
	Bundle  string `json:"bundle,omitempty"`
	Failure string `json:"failure,omitempty"`
	// Modules lists the identities loaded by the build, dependencies first.
	Modules []ResolvedIdentity `json:"modules,omitempty"`
	failed  bool
}

// Compiled returns a successful BuildOutput.
func Compiled(bundle string, modules []ResolvedIdentity) BuildOutput {
	return BuildOutput{Bundle: bundle, Modules: modules}
}

// CompileFailed returns a failed BuildOutput.
func CompileFailed(reason string) BuildOutput {
	return BuildOutput{Failure: reason, failed: true}
}

// OK reports whether the build produced a bundle.
func (o BuildOutput) OK() bool {
	return !o.failed && o.Failure == ""
}

// String renders the single-string contract consumed by chat callers.
func (o BuildOutput) String() string {
	if o.OK() {
		return o.Bundle
	}
	return CompileFailurePrefix + o.Failure
}

// ExecutionResult is the tagged result of running a script in the sandbox.
type ExecutionResult struct {
	Value   any    `json:"value,omitempty"`
	Failure string `json:"failure,omitempty"`
}

// OK reports whether the script completed.
func (r ExecutionResult) OK() bool {
	return r.Failure == ""
}

// Result returns the value on success or the formatted failure string.
func (r ExecutionResult) Result() any {
	if r.OK() {
		return r.Value
	}
	return ExecuteFailurePrefix + r.Failure
}

// String renders the single-string contract: the value's text, or the prefixed failure.
func (r ExecutionResult) String() string {
	if !r.OK() {
		return ExecuteFailurePrefix + r.Failure
	}
	if r.Value == nil {
		return "undefined"
	}
	return fmt.Sprint(r.Value)
}

// RunOutput is the result of compiling and then executing a request.
type RunOutput struct {
	Build BuildOutput
	// Execution is nil when compilation failed.
	Execution *ExecutionResult
}
