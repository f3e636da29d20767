package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/discovery"
)

const (
	// DefaultConfigFile is looked up in the current directory.
	DefaultConfigFile = ".patchbump.yaml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "PATCHBUMP_CONFIG"
)

// Config is the main configuration structure for patchbump.
type Config struct {
	Mode           string   `yaml:"mode"`
	PackageDirs    []string `yaml:"package-dirs,omitempty"`
	IgnorePackages []string `yaml:"ignore-packages,omitempty"`
	IgnorePatterns []string `yaml:"ignore-patterns,omitempty"`
	Manifests      []string `yaml:"manifests,omitempty"`
	RootManifest   string   `yaml:"root-manifest"`
	BumpRoot       *bool    `yaml:"bump-root"`
	Stage          *bool    `yaml:"stage"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = string(discovery.ModeDirs)
	}
	if len(c.PackageDirs) == 0 {
		c.PackageDirs = []string{"packages"}
	}
	if len(c.Manifests) == 0 {
		c.Manifests = []string{"pyproject.toml"}
	}
	if c.RootManifest == "" {
		c.RootManifest = "pyproject.toml"
	}
	if c.BumpRoot == nil {
		c.BumpRoot = BoolPtr(true)
	}
	if c.Stage == nil {
		c.Stage = BoolPtr(true)
	}
}

// BoolPtr returns a pointer to b, for the optional boolean fields.
func BoolPtr(b bool) *bool { return &b }

// ShouldBumpRoot reports whether root propagation is enabled.
func (c *Config) ShouldBumpRoot() bool {
	return c.BumpRoot == nil || *c.BumpRoot
}

// ShouldStage reports whether written manifests are re-staged.
func (c *Config) ShouldStage() bool {
	return c.Stage == nil || *c.Stage
}

// DiscoveryOptions converts the config into discovery options. The config
// must have passed Validate.
func (c *Config) DiscoveryOptions() (discovery.Options, error) {
	mode, err := discovery.ParseMode(c.Mode)
	if err != nil {
		return discovery.Options{}, err
	}

	patterns := make([]*regexp.Regexp, 0, len(c.IgnorePatterns))
	for _, p := range c.IgnorePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return discovery.Options{}, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	manifests := make([]discovery.KnownManifest, 0, len(c.Manifests))
	for _, name := range c.Manifests {
		known, ok := discovery.LookupManifest(name)
		if !ok || known.Filename != name {
			return discovery.Options{}, fmt.Errorf("unknown manifest %q", name)
		}
		manifests = append(manifests, known)
	}

	return discovery.Options{
		Mode:           mode,
		PackageDirs:    c.PackageDirs,
		IgnorePackages: c.IgnorePackages,
		IgnorePatterns: patterns,
		Manifests:      manifests,
		RootManifest:   c.RootManifest,
	}, nil
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

// osFileOpener is the production implementation of FileOpener.
type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// osFileWriter is the production implementation of FileWriter.
type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

// yamlMarshaler is the production implementation of core.Marshaler using YAML.
type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// Save saves the configuration to the default config file.
func (s *ConfigSaver) Save(cfg *Config) error {
	return s.SaveTo(cfg, DefaultConfigFile)
}

// SaveTo saves the configuration to the specified file path.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

// LoadConfigFn is a variable so commands can be tested without touching the
// working directory.
var LoadConfigFn = loadConfig

// ResolvePath returns the config file to read: explicit wins, then the
// PATCHBUMP_CONFIG environment variable, then DefaultConfigFile.
func ResolvePath(explicit string) (path string, required bool, err error) {
	if explicit != "" {
		return filepath.Clean(explicit), true, nil
	}
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		// Reject relative paths with traversal (use absolute paths instead)
		if !filepath.IsAbs(cleanPath) && strings.Contains(cleanPath, "..") {
			return "", false, fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvConfigPath)
		}
		return cleanPath, true, nil
	}
	return DefaultConfigFile, false, nil
}

// loadConfig reads the config file. A missing default file yields Default();
// a missing explicit file is an error.
func loadConfig(explicit string) (*Config, error) {
	path, required, err := ResolvePath(explicit)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("in config %q: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML strictly, fills defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFilePerm defines file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW
