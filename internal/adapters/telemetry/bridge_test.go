package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/mock/gomock"

	"go.trai.ch/bundl/internal/adapters/telemetry"
	"go.trai.ch/bundl/internal/core/ports/mocks"
)

func TestLogBridge_SuccessfulSpanLogsDebug(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().With("span_id", gomock.Any()).Return(log)
	log.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "compile finished in")
	})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(log)))
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test")

	_, span := tracer.Start(context.Background(), "compile")
	span.End()
}

func TestLogBridge_FailedSpanLogsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().With("span_id", gomock.Any()).Return(log)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.EqualError(t, err, "fetch failed")
	})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(log)))
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test")

	_, span := tracer.Start(context.Background(), "load")
	span.RecordError(errors.New("fetch failed"))
	span.End()
}

func TestLogBridge_NilLogger(t *testing.T) {
	b := telemetry.NewLogBridge(nil)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(b))
	_, span := telemetry.NewOTelTracerWithProvider(tp, "test").Start(context.Background(), "x")
	span.End()
	assert.NoError(t, b.ForceFlush(context.Background()))
	assert.NoError(t, b.Shutdown(context.Background()))
}
