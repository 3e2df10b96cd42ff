package server_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bundl/internal/adapters/metrics"
	"go.trai.ch/bundl/internal/adapters/server"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeService struct {
	compiled []domain.BuildRequest
	build    domain.BuildOutput
	exec     *domain.ExecutionResult
}

func (f *fakeService) Compile(_ context.Context, req domain.BuildRequest) domain.BuildOutput {
	f.compiled = append(f.compiled, req)
	return f.build
}

func (f *fakeService) Run(ctx context.Context, req domain.BuildRequest) domain.RunOutput {
	return domain.RunOutput{Build: f.Compile(ctx, req), Execution: f.exec}
}

func newServer(t *testing.T, svc server.Service) *server.Server {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().With(gomock.Any(), gomock.Any()).Return(logger).AnyTimes()
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return server.New(svc, logger, metrics.New())
}

func post(t *testing.T, s *server.Server, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestCompile(t *testing.T) {
	svc := &fakeService{build: domain.Compiled("console.log(1);\n", nil)}
	s := newServer(t, svc)

	status, body := post(t, s, "/v1/compile", `{"rawCode":"console.log(1)"}`)
	require.Equal(t, fiber.StatusOK, status)

	var resp server.CompileResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "console.log(1);\n", resp.Result)

	require.Len(t, svc.compiled, 1)
	assert.Equal(t, "index.js", svc.compiled[0].EntryPoint)
}

func TestCompile_FailureIsAResult(t *testing.T) {
	svc := &fakeService{build: domain.CompileFailed("Build failed with 1 error")}
	s := newServer(t, svc)

	status, body := post(t, s, "/v1/compile", `{"rawCode":"let x: ;","entryPoint":"index.ts"}`)
	require.Equal(t, fiber.StatusOK, status)

	var resp server.CompileResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Compilation failed: Build failed with 1 error", resp.Result)
	assert.Equal(t, "index.ts", svc.compiled[0].EntryPoint)
}

func TestCompile_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{"rawCode":`, want: "invalid request body"},
		{name: "empty source", body: `{"rawCode":"   "}`, want: domain.ErrEmptySource.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			s := newServer(t, svc)

			status, body := post(t, s, "/v1/compile", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Contains(t, resp.Error, tt.want)
			assert.Empty(t, svc.compiled)
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeService{
			build: domain.Compiled("1+1;", nil),
			exec:  &domain.ExecutionResult{Value: int64(2)},
		}
		s := newServer(t, svc)

		status, body := post(t, s, "/v1/run", `{"rawCode":"1 + 1"}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"compiled":"1+1;","result":2}`, string(body))
	})

	t.Run("execution failure", func(t *testing.T) {
		svc := &fakeService{
			build: domain.Compiled("process.exit(1);", nil),
			exec:  &domain.ExecutionResult{Failure: "process is not defined"},
		}
		s := newServer(t, svc)

		_, body := post(t, s, "/v1/run", `{"rawCode":"process.exit(1)"}`)
		assert.JSONEq(t, `{"compiled":"process.exit(1);","result":"Failed to execute script: process is not defined"}`, string(body))
	})

	t.Run("compile failure", func(t *testing.T) {
		svc := &fakeService{build: domain.CompileFailed("boom")}
		s := newServer(t, svc)

		_, body := post(t, s, "/v1/run", `{"rawCode":"let x: ;"}`)
		assert.JSONEq(t, `{"compiled":"Compilation failed: boom","result":null}`, string(body))
	})
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newServer(t, &fakeService{})

	resp, err := s.App().Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = s.App().Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bundl_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}
