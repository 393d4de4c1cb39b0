// Package manifest handles objective.toml runtime configuration.
package manifest

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chazu/objective/object"
	"github.com/tliron/commonlog"
)

// FileName is the name of the configuration file.
const FileName = "objective.toml"

// Config represents an objective.toml configuration.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Allocator AllocatorConfig `toml:"allocator"`
	Fetch     FetchConfig     `toml:"fetch"`

	// Dir is the directory containing the objective.toml file (set at load time).
	Dir string `toml:"-"`
}

// LogConfig configures the commonlog backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// AllocatorConfig configures instance storage.
type AllocatorConfig struct {
	// MaxSlots bounds the live cells of all instances. Zero means the
	// unbounded heap allocator.
	MaxSlots int `toml:"max_slots"`
}

// FetchConfig configures HTTP clients for URL session tasks.
type FetchConfig struct {
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
}

// Default values.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "objective/0.1"
)

// Default returns the configuration used when no objective.toml is found.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
}

// Load parses an objective.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if c.Allocator.MaxSlots < 0 {
		return nil, fmt.Errorf("%s: allocator.max_slots must not be negative", path)
	}
	if c.Fetch.Timeout < 0 {
		return nil, fmt.Errorf("%s: fetch.timeout must not be negative", path)
	}
	c.setDefaults()

	// A relative log path is relative to the configuration file.
	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(c.Dir, c.Log.Path)
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find an objective.toml file,
// then loads and returns the configuration. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Apply configures logging and installs the configured allocator. It
// returns the allocator that was active before.
func (c *Config) Apply() object.Allocator {
	if c.Log.Path != "" {
		commonlog.Configure(c.Log.Verbosity, &c.Log.Path)
	} else {
		commonlog.Configure(c.Log.Verbosity, nil)
	}

	if c.Allocator.MaxSlots > 0 {
		return object.SetAllocator(object.NewBudgetAllocator(c.Allocator.MaxSlots))
	}
	return object.SetAllocator(object.HeapAllocator{})
}

// HTTPClient returns a client that applies the fetch timeout and user agent.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout:   c.Fetch.Timeout,
		Transport: userAgentTransport{agent: c.Fetch.UserAgent, next: http.DefaultTransport},
	}
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}
