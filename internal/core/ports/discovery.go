package ports

// TestDiscoverer finds contract files that contain tests.
//
//go:generate go run go.uber.org/mock/mockgen -source=discovery.go -destination=mocks/mock_discovery.go -package=mocks
type TestDiscoverer interface {
	// Discover returns the matching files below root, sorted.
	Discover(root, pattern string) ([]string, error)
}
