// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/weave/internal/adapters/cas"
	_ "go.trai.ch/weave/internal/adapters/config"
	_ "go.trai.ch/weave/internal/adapters/emit"
	_ "go.trai.ch/weave/internal/adapters/fs"
	_ "go.trai.ch/weave/internal/adapters/logger"
	_ "go.trai.ch/weave/internal/adapters/telemetry"
	_ "go.trai.ch/weave/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/weave/internal/app"
	_ "go.trai.ch/weave/internal/engine/generator"
)
