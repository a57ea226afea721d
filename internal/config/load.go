package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoConfigFile is returned alongside a usable Config when the file is absent.
var ErrNoConfigFile = errors.New("config file not found")

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load reads the optional file at path, overlays the environment and validates.
// A missing file yields defaults together with ErrNoConfigFile; any other
// error yields a nil Config.
func Load(path string, lookup LookupFunc) (*Config, error) {
	if path == "" {
		return FromReader(nil, FormatYAML, lookup)
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err := FromReader(nil, FormatYAML, lookup)
		if err != nil {
			return nil, err
		}
		return cfg, fmt.Errorf("%w: %s", ErrNoConfigFile, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, FormatFor(path), lookup)
}

// FromReader decodes r (which may be nil) in the given format. Unknown keys
// are rejected.
func FromReader(r io.Reader, format Format, lookup LookupFunc) (*Config, error) {
	var cfg Config
	if r != nil {
		if err := decode(r, format, &cfg); err != nil {
			return nil, err
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

// ApplyEnv overlays environment variables on top of file values.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("FM_CONNECT_STRING"); ok {
		c.ConnectString = v
	}
	str("NODEBOARD_HTTP_ADDRESS", &c.HTTP.Address)
	str("NODEBOARD_NODE_HOST", &c.Node.Host)
	str("NODEBOARD_NODE_USER", &c.Node.User)
	str("NODEBOARD_NODE_PASSWORD", &c.Node.Password)
	str("NODEBOARD_NODE_WALLET", &c.Node.Wallet)
	str("NODEBOARD_LOG_LEVEL", &c.Logging.Level)
	str("NODEBOARD_LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("NODEBOARD_NODE_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NODEBOARD_NODE_PORT: %w", err)
		}
		c.Node.Port = port
	}
	return nil
}
