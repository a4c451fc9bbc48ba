package types

import "github.com/lepinkainen/clipsorter/config"

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	// Config is the loaded configuration with command-line overrides applied.
	Config *config.Config
}

// GetVersion returns the version, or DefaultVersion for a nil context.
func (c *AppContext) GetVersion() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

// GetConfig returns the configuration, or the defaults for a nil context.
func (c *AppContext) GetConfig() *config.Config {
	if c == nil || c.Config == nil {
		return config.Default()
	}
	return c.Config
}
