package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/foundry/internal/core/ports"
)

// StoreNodeID is the unique identifier for the cache store Graft node.
const StoreNodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CacheStore, error) {
			return NewStore(), nil
		},
	})
}
