package domain

// ScriptError is a failed script execution.
// Message is shown to the caller verbatim; Kind classifies the failure for errors.Is.
type ScriptError struct {
	Kind    error
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Kind
}
