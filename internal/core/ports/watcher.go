package ports

import "context"

// Watcher reports changes to contract files below a root directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch blocks until ctx is done, calling onChange with batches of changed paths.
	Watch(ctx context.Context, root string, onChange func(paths []string)) error
}
