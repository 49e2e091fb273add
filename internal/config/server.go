package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "KEEPSAKE_SERVER_HOST"
	EnvServerPort              = "KEEPSAKE_SERVER_PORT"
	EnvServerReadHeaderTimeout = "KEEPSAKE_SERVER_READ_HEADER_TIMEOUT"
	EnvServerReadTimeout       = "KEEPSAKE_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout      = "KEEPSAKE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "KEEPSAKE_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "KEEPSAKE_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Timeouts are Go duration strings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration { return duration(c.ReadHeaderTimeout) }
func (c *ServerConfig) ReadTimeoutDuration() time.Duration       { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration      { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration       { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration   { return duration(c.ShutdownTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.timeouts(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

type timeoutField struct {
	name string
	env  string
	def  string
	dst  *string
	src  *string
}

// timeouts pairs each timeout field with its metadata. src points into
// overlay when one is given, otherwise it is nil.
func (c *ServerConfig) timeouts(overlay *ServerConfig) []timeoutField {
	fields := []timeoutField{
		{name: "read_header_timeout", env: EnvServerReadHeaderTimeout, def: "10s", dst: &c.ReadHeaderTimeout},
		{name: "read_timeout", env: EnvServerReadTimeout, def: "30s", dst: &c.ReadTimeout},
		{name: "write_timeout", env: EnvServerWriteTimeout, def: "30s", dst: &c.WriteTimeout},
		{name: "idle_timeout", env: EnvServerIdleTimeout, def: "2m", dst: &c.IdleTimeout},
		{name: "shutdown_timeout", env: EnvServerShutdownTimeout, def: "30s", dst: &c.ShutdownTimeout},
	}
	if overlay != nil {
		fields[0].src = &overlay.ReadHeaderTimeout
		fields[1].src = &overlay.ReadTimeout
		fields[2].src = &overlay.WriteTimeout
		fields[3].src = &overlay.IdleTimeout
		fields[4].src = &overlay.ShutdownTimeout
	}
	return fields
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.timeouts(nil) {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.timeouts(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.timeouts(nil) {
		d, err := time.ParseDuration(*f.dst)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", f.name)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
