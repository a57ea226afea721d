package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ErrMissingConnectString is returned by Validate when FM_CONNECT_STRING is unset.
var ErrMissingConnectString = errors.New("FM_CONNECT_STRING environment variable not set")

type Config struct {
	// ConnectString is shown to the user for pairing a companion app. It only
	// comes from the environment.
	ConnectString string `yaml:"-" toml:"-"`

	HTTP struct {
		Address string `yaml:"address" toml:"address"`
	} `yaml:"http" toml:"http"`

	Node NodeConfig `yaml:"node" toml:"node"`

	Logging struct {
		Level  string `yaml:"level" toml:"level"`   // "debug" | "info" | "warn" | "error"
		Format string `yaml:"format" toml:"format"` // "text" | "json"
		File   string `yaml:"file" toml:"file"`
	} `yaml:"logging" toml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" toml:"enabled"`
		Path    string `yaml:"path" toml:"path"`
	} `yaml:"metrics" toml:"metrics"`

	Security struct {
		// PasswordHash is a bcrypt hash; when set the dashboard requires basic auth.
		Username     string `yaml:"username" toml:"username"`
		PasswordHash string `yaml:"password_hash" toml:"password_hash"`
	} `yaml:"security" toml:"security"`
}

type NodeConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	TLS      bool   `yaml:"tls" toml:"tls"`
	Wallet   string `yaml:"wallet" toml:"wallet"`
}

func (c *Config) Defaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = "0.0.0.0:3000"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Security.Username == "" {
		c.Security.Username = "admin"
	}
	if c.Node.Host == "" {
		c.Node.Host = "localhost"
	}
	if c.Node.Port == 0 {
		c.Node.Port = 18443
	}
	if c.Node.User == "" {
		c.Node.User = "bitcoin"
	}
	if c.Node.Password == "" {
		c.Node.Password = "bitcoin"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ConnectString) == "" {
		errs = append(errs, ErrMissingConnectString)
	}
	if c.Node.Port < 1 || c.Node.Port > 65535 {
		errs = append(errs, fmt.Errorf("node.port %d out of range", c.Node.Port))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}
	return errors.Join(errs...)
}

// Endpoint returns the JSON-RPC URL of the node. Address calls go to the
// wallet endpoint when a wallet is configured.
func (n *NodeConfig) Endpoint() string {
	scheme := "http"
	if n.TLS {
		scheme = "https"
	}
	u := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(n.Host, strconv.Itoa(n.Port)),
	}
	return u.String()
}

func (n *NodeConfig) WalletEndpoint() string {
	if n.Wallet == "" {
		return n.Endpoint()
	}
	return n.Endpoint() + "/wallet/" + url.PathEscape(n.Wallet)
}
