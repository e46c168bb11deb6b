// Package config reads the server settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys.
const (
	KeyServerName      = "MCP_SERVER_NAME"
	KeyServerVersion   = "MCP_SERVER_VERSION"
	KeyHost            = "MCP_HOST"
	KeyPort            = "MCP_PORT"
	KeyPluginDir       = "MCP_PLUGIN_DIR"
	KeyPluginName      = "MCP_PLUGIN_NAME"
	KeyBaseURL         = "MCP_BASE_URL"
	KeyToken           = "MCP_TOKEN"
	KeyShutdownTimeout = "MCP_SHUTDOWN_TIMEOUT"
)

// Defaults.
const (
	DefaultServerName      = "Generic-MCP-Server"
	DefaultServerVersion   = "1.0.0"
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultPluginDir       = "/app/user_code"
	DefaultPluginName      = "user_mcp"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds everything main needs to boot the server.
type Config struct {
	Name            string
	Version         string
	Host            string
	Port            int
	PluginDir       string
	PluginName      string
	BaseURL         string
	Token           string
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load merges <plugin dir>/.env into the environment (existing variables win)
// and reads the configuration. Unset or empty keys take their defaults,
// except MCP_SERVER_NAME which is used verbatim whenever it is set.
func Load() (Config, error) {
	v := newViper()

	envFile := filepath.Join(v.GetString(KeyPluginDir), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	port, err := strconv.Atoi(v.GetString(KeyPort))
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("invalid %s %q", KeyPort, v.GetString(KeyPort))
	}
	timeout, err := time.ParseDuration(v.GetString(KeyShutdownTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyShutdownTimeout, err)
	}

	name := v.GetString(KeyServerName)
	if set, ok := os.LookupEnv(KeyServerName); ok {
		name = set
	}

	return Config{
		Name:            name,
		Version:         v.GetString(KeyServerVersion),
		Host:            v.GetString(KeyHost),
		Port:            port,
		PluginDir:       v.GetString(KeyPluginDir),
		PluginName:      v.GetString(KeyPluginName),
		BaseURL:         v.GetString(KeyBaseURL),
		Token:           v.GetString(KeyToken),
		ShutdownTimeout: timeout,
	}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerName, DefaultServerName)
	v.SetDefault(KeyServerVersion, DefaultServerVersion)
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyPort, strconv.Itoa(DefaultPort))
	v.SetDefault(KeyPluginDir, DefaultPluginDir)
	v.SetDefault(KeyPluginName, DefaultPluginName)
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout.String())
	v.AutomaticEnv()
	return v
}
