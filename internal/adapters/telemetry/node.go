package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/foundry/internal/core/ports"
)

const (
	// ProviderNodeID is the unique identifier for the OpenTelemetry provider Graft node.
	ProviderNodeID graft.ID = "adapter.telemetry.provider"
	// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
	TracerNodeID graft.ID = "adapter.telemetry"
	// ExporterNodeID is the unique identifier for the trace exporter Graft node.
	ExporterNodeID graft.ID = "adapter.telemetry.exporter"
)

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Provider, error) {
			return NewProvider(), nil
		},
	})

	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ProviderNodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			p, err := graft.Dep[*Provider](ctx)
			if err != nil {
				return nil, err
			}
			return p.Tracer(), nil
		},
	})

	graft.Register(graft.Node[ports.TraceExporter]{
		ID:        ExporterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ProviderNodeID},
		Run: func(ctx context.Context) (ports.TraceExporter, error) {
			p, err := graft.Dep[*Provider](ctx)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	})
}
