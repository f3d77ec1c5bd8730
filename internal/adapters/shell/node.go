package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/foundry/internal/adapters/logger"
	"go.trai.ch/foundry/internal/core/ports"
)

// NodeID is the unique identifier for the shell runner Graft node.
const NodeID graft.ID = "adapter.shell_runner"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Runner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})
}
