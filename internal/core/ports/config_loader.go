package ports

import "go.trai.ch/foundry/internal/core/domain"

// ConfigLoader defines the interface for loading the runner configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory.
	// Set fields of overrides take precedence over every other source.
	Load(cwd string, overrides domain.ConfigOverrides) (*domain.Config, error)
}
