// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/foundry/internal/adapters/cache"
	_ "go.trai.ch/foundry/internal/adapters/config"
	_ "go.trai.ch/foundry/internal/adapters/fs"
	_ "go.trai.ch/foundry/internal/adapters/logger"
	_ "go.trai.ch/foundry/internal/adapters/shell"
	_ "go.trai.ch/foundry/internal/adapters/telemetry"
	_ "go.trai.ch/foundry/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/foundry/internal/app"
)
