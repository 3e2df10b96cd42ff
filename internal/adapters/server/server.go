// Package server exposes the compiler over HTTP with Fiber.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.trai.ch/bundl/internal/adapters/metrics"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	bodyLimit       = 4 << 20
	shutdownTimeout = 10 * time.Second
)

// Service is the application surface served over HTTP.
type Service interface {
	Compile(ctx context.Context, req domain.BuildRequest) domain.BuildOutput
	Run(ctx context.Context, req domain.BuildRequest) domain.RunOutput
}

// CompileResponse carries the single-string compile result.
type CompileResponse struct {
	Result string `json:"result"`
}

// RunResponse carries the compile result and, when it succeeded, the execution result.
type RunResponse struct {
	Compiled string `json:"compiled"`
	Result   any    `json:"result"`
}

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API.
type Server struct {
	app    *fiber.App
	svc    Service
	logger ports.Logger
}

// New creates a Server and registers its routes.
func New(svc Service, logger ports.Logger, recorder *metrics.Recorder) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		app: fiber.New(fiber.Config{
			AppName:               "bundl",
			BodyLimit:             bodyLimit,
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			ErrorHandler:          errorHandler,
		}),
	}

	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(recover.New())
	if recorder != nil {
		s.app.Use(recorder.Middleware())
		s.app.Get("/metrics", recorder.Handler())
	}
	s.app.Use(s.logRequest)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/v1")
	v1.Post("/compile", s.compile)
	v1.Post("/run", s.run)

	return s
}

// App exposes the Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	s.logger.With("addr", addr).Info("http server listening")

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, "http server failed"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return zerr.Wrap(err, "http server shutdown failed")
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) compile(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return err
	}

	out := s.svc.Compile(c.UserContext(), req)
	return c.JSON(CompileResponse{Result: out.String()})
}

func (s *Server) run(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return err
	}

	out := s.svc.Run(c.UserContext(), req)
	resp := RunResponse{Compiled: out.Build.String()}
	if out.Execution != nil {
		resp.Result = out.Execution.Result()
	}
	return c.JSON(resp)
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	log := s.logger.
		With("method", c.Method()).
		With("path", c.Path()).
		With("status", c.Response().StatusCode()).
		With("request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	log.Debug("handled request in " + time.Since(start).String())
	return err
}

func parseRequest(c *fiber.Ctx) (domain.BuildRequest, error) {
	var req domain.BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.RawCode) == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, domain.ErrEmptySource.Error())
	}
	return req.Normalize(), nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
