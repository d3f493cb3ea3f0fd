package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
	"github.com/pelletier/go-toml/v2"
)

// Load reads flams.kdl from root, if present, and overlays it onto
// Default(). Where no flams.kdl exists, it falls back to the legacy
// flams.toml format before giving up and returning Default() unchanged —
// the same "newer format first, older format as a fallback" shape the
// teacher's config loading gives its own multi-source sources.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, "flams.kdl")
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read flams.kdl: %w", err)
		}
		cfg, tomlErr := loadTOML(root)
		if tomlErr != nil {
			return nil, tomlErr
		}
		if cfg == nil {
			return Default(), nil
		}
		resolveRoots(cfg, root)
		return cfg, nil
	}
	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse flams.kdl: %w", err)
	}
	resolveRoots(cfg, root)
	return cfg, nil
}

func resolveRoots(cfg *Config, root string) {
	for i, r := range cfg.Library.Roots {
		if !filepath.IsAbs(r) {
			cfg.Library.Roots[i] = filepath.Clean(filepath.Join(root, r))
		}
	}
}

// tomlConfig mirrors Config's shape for the legacy flams.toml format; fields
// left unset keep Default()'s values since unmarshalling starts from a
// Default()-seeded tomlConfig rather than a zero value.
type tomlConfig struct {
	Library struct {
		Roots []string `toml:"roots"`
	} `toml:"library"`
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	Cache struct {
		DocumentCapacity int `toml:"document_capacity"`
		ModuleCapacity   int `toml:"module_capacity"`
		TTLSeconds       int `toml:"ttl_seconds"`
	} `toml:"cache"`
	Watch struct {
		Enabled    bool `toml:"enabled"`
		DebounceMs int  `toml:"debounce_ms"`
	} `toml:"watch"`
	MCP struct {
		Enabled bool `toml:"enabled"`
	} `toml:"mcp"`
}

// loadTOML reads flams.toml from root. A missing file returns (nil, nil) so
// Load can fall through to Default().
func loadTOML(root string) (*Config, error) {
	path := filepath.Join(root, "flams.toml")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read flams.toml: %w", err)
	}
	def := Default()
	var t tomlConfig
	t.Library.Roots = def.Library.Roots
	t.Server.Addr = def.Server.Addr
	t.Cache.DocumentCapacity = def.Cache.DocumentCapacity
	t.Cache.ModuleCapacity = def.Cache.ModuleCapacity
	t.Cache.TTLSeconds = def.Cache.TTLSeconds
	t.Watch.Enabled = def.Watch.Enabled
	t.Watch.DebounceMs = def.Watch.DebounceMs
	t.MCP.Enabled = def.MCP.Enabled

	if err := toml.Unmarshal(content, &t); err != nil {
		return nil, fmt.Errorf("parse flams.toml: %w", err)
	}
	return &Config{
		Version: def.Version,
		Library: LibraryConfig{Roots: t.Library.Roots},
		Server:  ServerConfig{Addr: t.Server.Addr},
		Cache: CacheConfig{
			DocumentCapacity: t.Cache.DocumentCapacity,
			ModuleCapacity:   t.Cache.ModuleCapacity,
			TTLSeconds:       t.Cache.TTLSeconds,
		},
		Watch: WatchConfig{Enabled: t.Watch.Enabled, DebounceMs: t.Watch.DebounceMs},
		MCP:   MCPConfig{Enabled: t.MCP.Enabled},
	}, nil
}

// parseKDL walks a flams.kdl document's top-level blocks:
//
//	library { root "/path/to/lib" }
//	server { addr ":8090" }
//	cache { document_capacity 500; module_capacity 2000; ttl_seconds 300 }
//	watch { enabled true; debounce_ms 300 }
//	mcp { enabled true }
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "library":
			for _, cn := range n.Children {
				if nodeName(cn) == "root" {
					cfg.Library.Roots = append(cfg.Library.Roots, collectStringArgs(cn)...)
				}
			}
			if len(n.Arguments) > 0 {
				cfg.Library.Roots = append(cfg.Library.Roots, collectStringArgs(n)...)
			}
		case "server":
			for _, cn := range n.Children {
				assignSimpleString(cn, "addr", func(v string) { cfg.Server.Addr = v })
			}
		case "cache":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "document_capacity":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.DocumentCapacity = v
					}
				case "module_capacity":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.ModuleCapacity = v
					}
				case "ttl_seconds":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.TTLSeconds = v
					}
				}
			}
		case "watch":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Watch.Enabled = b
					}
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "mcp":
			for _, cn := range n.Children {
				if nodeName(cn) == "enabled" {
					if b, ok := firstBoolArg(cn); ok {
						cfg.MCP.Enabled = b
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads string values either from a node's inline
// arguments (`root "a" "b"`) or, when none are present, from its children's
// node names (the `root { "a"; "b" }` block form).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
