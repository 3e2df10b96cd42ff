// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bundl/internal/adapters/cache"
	_ "go.trai.ch/bundl/internal/adapters/config"
	_ "go.trai.ch/bundl/internal/adapters/esbuild"
	_ "go.trai.ch/bundl/internal/adapters/logger"
	_ "go.trai.ch/bundl/internal/adapters/metrics"
	_ "go.trai.ch/bundl/internal/adapters/registry"
	_ "go.trai.ch/bundl/internal/adapters/sandbox"
	_ "go.trai.ch/bundl/internal/adapters/telemetry"
	_ "go.trai.ch/bundl/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/bundl/internal/app"
	_ "go.trai.ch/bundl/internal/engine/compiler"
	_ "go.trai.ch/bundl/internal/engine/loader"
	_ "go.trai.ch/bundl/internal/engine/resolver"
)
