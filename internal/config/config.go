package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tata1mg/catalyst-go/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "catalyst.json"

	// DefaultPort is the default server port.
	DefaultPort = 3005

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultFetchTimeout bounds a single boundary data fetch.
	DefaultFetchTimeout = "10s"

	// DefaultPromiseCapacity bounds the shared data-fetch cache.
	DefaultPromiseCapacity = 100
)

// Config represents the complete catalyst.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Assets points at the build outputs the render pipeline consumes.
	Assets AssetsConfig `json:"assets,omitempty"`

	// Cache tunes the process-wide caches.
	Cache CacheConfig `json:"cache,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains production build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// AssetPrefix is prepended to emitted asset URLs (e.g. a CDN origin).
	AssetPrefix string `json:"assetPrefix,omitempty"`
}

// AssetsConfig locates the build manifest, the categorized asset file, and
// the module graph. Local paths are relative to the config directory; when
// S3 is configured it takes precedence for manifest and category.
type AssetsConfig struct {
	// Manifest is the path to the build manifest JSON.
	Manifest string `json:"manifest,omitempty"`

	// Category is the path to the categorized (essential/dynamic) JSON.
	Category string `json:"category,omitempty"`

	// Graph is the path to the compiled module graph JSON.
	Graph string `json:"graph,omitempty"`

	// S3 configures remote manifest sources.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config names the remote objects holding build outputs.
type S3Config struct {
	Bucket      string `json:"bucket,omitempty"`
	Region      string `json:"region,omitempty"`
	ManifestKey string `json:"manifestKey,omitempty"`
	CategoryKey string `json:"categoryKey,omitempty"`
}

// CacheConfig tunes the process-wide caches.
type CacheConfig struct {
	// PromiseCapacity bounds the shared data-fetch cache.
	PromiseCapacity int `json:"promiseCapacity,omitempty"`

	// FetchTimeout bounds a single data fetch (e.g. "10s").
	FetchTimeout string `json:"fetchTimeout,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/static/").
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for rebuild output changes.
	Watch []string `json:"watch,omitempty"`

	// HotReload enables browser reload on build output changes.
	HotReload bool `json:"hotReload,omitempty"`
}

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for classified asset files.
	Output string `json:"output,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Assets: AssetsConfig{
			Manifest: "dist/manifest.json",
			Category: "dist/categorized.json",
			Graph:    "dist/graph.json",
		},
		Cache: CacheConfig{
			PromiseCapacity: DefaultPromiseCapacity,
			FetchTimeout:    DefaultFetchTimeout,
		},
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/static/",
		},
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			HotReload: true,
			Watch:     []string{"dist", "public"},
		},
		Build: BuildConfig{
			Output: DefaultOutput,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for catalyst.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E001").
				WithDetail("No catalyst.json found in " + filepath.Dir(path)).
				WithSuggestion("Create catalyst.json at the project root")
		}
		return nil, errors.New("E002").Wrap(err)
	}

	// Decode into a zero Config so applyDefaults can tell which fields the
	// file actually set; dev falls back to the server address only when the
	// file left it empty.
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E002").
			WithDetail("Failed to parse catalyst.json: " + err.Error()).
			WithSuggestion("Check that catalyst.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E002").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E002").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	if c.Assets.Manifest == "" {
		c.Assets.Manifest = "dist/manifest.json"
	}
	if c.Assets.Category == "" {
		c.Assets.Category = "dist/categorized.json"
	}
	if c.Assets.Graph == "" {
		c.Assets.Graph = "dist/graph.json"
	}

	if c.Cache.PromiseCapacity == 0 {
		c.Cache.PromiseCapacity = DefaultPromiseCapacity
	}
	if c.Cache.FetchTimeout == "" {
		c.Cache.FetchTimeout = DefaultFetchTimeout
	}

	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/static/"
	}

	if c.Dev.Port == 0 {
		c.Dev.Port = c.Server.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = c.Server.Host
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"dist", "public"}
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E003").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Cache.PromiseCapacity < 1 {
		return errors.New("E003").
			WithDetail("cache.promiseCapacity must be at least 1")
	}
	if _, err := time.ParseDuration(c.Cache.FetchTimeout); err != nil {
		return errors.New("E003").
			WithDetail("cache.fetchTimeout is not a valid duration: " + c.Cache.FetchTimeout).
			WithSuggestion(`Use a Go duration string such as "10s" or "1500ms"`)
	}
	if c.UsesS3() && (c.Assets.S3.ManifestKey == "" || c.Assets.S3.CategoryKey == "") {
		return errors.New("E003").
			WithDetail("assets.s3.bucket is set but manifestKey or categoryKey is missing")
	}
	return nil
}

// Address returns the listen address for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// DevAddress returns the listen address for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// FetchTimeout returns the parsed fetch timeout. Call Validate first;
// an unparseable value falls back to the default.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Cache.FetchTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultFetchTimeout)
	}
	return d
}

// UsesS3 reports whether build outputs are fetched from S3.
func (c *Config) UsesS3() bool {
	return c.Assets.S3.Bucket != ""
}

// ManifestPath returns the absolute path to the build manifest.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Assets.Manifest)
}

// CategoryPath returns the absolute path to the categorized asset file.
func (c *Config) CategoryPath() string {
	return c.resolve(c.Assets.Category)
}

// GraphPath returns the absolute path to the module graph.
func (c *Config) GraphPath() string {
	return c.resolve(c.Assets.Graph)
}

// PublicPath returns the absolute path to the static files directory.
func (c *Config) PublicPath() string {
	return c.resolve(c.Static.Dir)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing catalyst.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E001").
				WithDetail("No catalyst.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
