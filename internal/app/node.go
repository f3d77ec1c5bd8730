package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/foundry/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.DiscovererNodeID,
			fs.HasherNodeID,
			fs.VerifierNodeID,
			cache.StoreNodeID,
			telemetry.TracerNodeID,
			telemetry.ExporterNodeID,
			watcher.NodeID,
			shell.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	discoverer, err := graft.Dep[ports.TestDiscoverer](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	exporter, err := graft.Dep[ports.TraceExporter](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[*shell.Runner](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, discoverer, store, hasher, verifier, tracer, w, runner).WithTraceExporter(exporter), nil
}
