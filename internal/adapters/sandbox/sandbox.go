// Package sandbox provides the script sandbox adapter.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

var consoleMethods = []string{"log", "info", "debug", "warn", "error"}

type timeoutSignal struct{}

// Sandbox implements ports.Sandbox using a fresh goja runtime per call.
type Sandbox struct {
	timeout time.Duration
	logger  ports.Logger
	globals map[string]any
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithGlobals exposes extra host values to every script.
func WithGlobals(globals map[string]any) Option {
	return func(s *Sandbox) {
		for k, v := range globals {
			s.globals[k] = v
		}
	}
}

// New creates a Sandbox whose scripts are interrupted after timeout.
func New(timeout time.Duration, logger ports.Logger, opts ...Option) *Sandbox {
	s := &Sandbox{
		timeout: timeout,
		logger:  logger,
		globals: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs code and returns the exported value of its last expression.
// Only ECMAScript built-ins, console and injected globals are visible to the script.
func (s *Sandbox) Execute(ctx context.Context, code string) (any, error) {
	vm := goja.New()
	if err := s.install(vm); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		timer := time.AfterFunc(s.timeout, func() {
			vm.Interrupt(timeoutSignal{})
		})
		defer timer.Stop()
	}
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	value, err := vm.RunString(code)
	if err != nil {
		return nil, s.failure(err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, nil
	}
	return value.Export(), nil
}

func (s *Sandbox) install(vm *goja.Runtime) error {
	console := vm.NewObject()
	for _, method := range consoleMethods {
		if err := console.Set(method, s.consoleFunc(method)); err != nil {
			return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: err.Error()}
		}
	}
	if err := vm.Set("console", console); err != nil {
		return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: err.Error()}
	}

	for name, value := range s.globals {
		if err := vm.Set(name, value); err != nil {
			return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: err.Error()}
		}
	}
	return nil
}

func (s *Sandbox) consoleFunc(method string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if s.logger == nil {
			return goja.Undefined()
		}

		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		line := strings.Join(parts, " ")

		log := s.logger.With("console", method)
		switch method {
		case "debug":
			log.Debug(line)
		case "warn", "error":
			log.Warn(line)
		default:
			log.Info(line)
		}
		return goja.Undefined()
	}
}

func (s *Sandbox) failure(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if _, ok := interrupted.Value().(timeoutSignal); ok {
			return &domain.ScriptError{
				Kind:    domain.ErrScriptTimeout,
				Message: fmt.Sprintf("Script execution timed out after %dms", s.timeout.Milliseconds()),
			}
		}
		if cause, ok := interrupted.Value().(error); ok {
			return &domain.ScriptError{Kind: cause, Message: cause.Error()}
		}
		return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: interrupted.Error()}
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: exceptionMessage(exception)}
	}

	return &domain.ScriptError{Kind: domain.ErrScriptFailed, Message: err.Error()}
}

// exceptionMessage returns the message property of a thrown Error, or the thrown value itself.
func exceptionMessage(exception *goja.Exception) string {
	thrown := exception.Value()
	if thrown == nil || goja.IsUndefined(thrown) || goja.IsNull(thrown) {
		return exception.Error()
	}

	if obj, ok := thrown.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
		return obj.String()
	}
	return thrown.String()
}
