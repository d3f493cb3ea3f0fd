package config

// Config is FLAMS's runtime configuration: which archive roots to scan
// (C6), where the tool surface listens (toolsurface), how large the
// document/module caches are (C5), and whether live rescanning is on
// (C6's Watcher).
type Config struct {
	Version int

	Library LibraryConfig
	Server  ServerConfig
	Cache   CacheConfig
	Watch   WatchConfig
	MCP     MCPConfig
}

// LibraryConfig names the filesystem roots the Scanner walks for archives.
type LibraryConfig struct {
	Roots []string
}

// ServerConfig configures the toolsurface MCP server's bind address.
type ServerConfig struct {
	Addr string
}

// CacheConfig sizes the backendcache Store (C5).
type CacheConfig struct {
	DocumentCapacity int
	ModuleCapacity   int
	TTLSeconds       int
}

// WatchConfig controls the archive.Watcher (C6).
type WatchConfig struct {
	Enabled    bool
	DebounceMs int
}

// MCPConfig toggles the toolsurface server.
type MCPConfig struct {
	Enabled bool
}

// Default returns a Config with every field set to its smart default. Load
// starts from this and overlays whatever a flams.kdl file specifies.
func Default() *Config {
	return &Config{
		Version: 1,
		Server:  ServerConfig{Addr: ":8090"},
		Cache:   CacheConfig{DocumentCapacity: 500, ModuleCapacity: 2000, TTLSeconds: 300},
		Watch:   WatchConfig{Enabled: true, DebounceMs: 300},
		MCP:     MCPConfig{Enabled: true},
	}
}
