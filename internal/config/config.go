package config

import (
	"flag"
	"fmt"
	"net"
	"strconv"

	"tinyserver/internal/obs"
)

const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultBufferSize = 1024
	DefaultPublicDir  = "./public"
	DefaultLogLevel   = "info"

	maxBufferSize = 1 << 20
)

// Config holds the server settings.
type Config struct {
	// Addr is the TCP address the server listens on.
	Addr string

	// BufferSize is the size of the single read buffer. A request line
	// longer than this is cut off and rejected.
	BufferSize int

	// PublicDir is the directory static files are served from.
	PublicDir string

	// MetricsAddr, when set, exposes Prometheus metrics on that address.
	MetricsAddr string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

func Default() Config {
	return Config{
		Addr:       DefaultAddr,
		BufferSize: DefaultBufferSize,
		PublicDir:  DefaultPublicDir,
		LogLevel:   DefaultLogLevel,
	}
}

// FromEnv overrides fields from TINYSERVER_* variables found by lookup,
// normally os.LookupEnv.
func (c Config) FromEnv(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup("TINYSERVER_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("TINYSERVER_BUFFER_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("TINYSERVER_BUFFER_SIZE: %w", err)
		}
		c.BufferSize = n
	}
	if v, ok := lookup("TINYSERVER_PUBLIC_DIR"); ok {
		c.PublicDir = v
	}
	if v, ok := lookup("TINYSERVER_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookup("TINYSERVER_LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	return c, nil
}

// RegisterFlags binds the fields to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "address to listen on")
	fs.IntVar(&c.BufferSize, "buffer-size", c.BufferSize, "read buffer size in bytes")
	fs.StringVar(&c.PublicDir, "public-dir", c.PublicDir, "directory to serve files from")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "address for the Prometheus endpoint (disabled when empty)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}

	if c.BufferSize <= 0 || c.BufferSize > maxBufferSize {
		return fmt.Errorf("buffer size must be between 1 and %d, got %d", maxBufferSize, c.BufferSize)
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("invalid metrics addr %q: %w", c.MetricsAddr, err)
		}
		if c.MetricsAddr == c.Addr {
			return fmt.Errorf("metrics addr must differ from addr")
		}
	}

	if _, err := obs.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Level returns the parsed log level, falling back to Info.
func (c Config) Level() obs.Level {
	l, _ := obs.ParseLevel(c.LogLevel)
	return l
}
