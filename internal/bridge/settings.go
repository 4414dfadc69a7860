package bridge

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/support-menu/internal/config"
)

const (
	// DefaultHost keeps the bridge on loopback; native shells run on the same machine.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the bridge port native shells dial when nothing is configured.
	DefaultPort = 8766
	// DefaultMaxBodyBytes caps request bodies and websocket frames; a selection is a few bytes.
	DefaultMaxBodyBytes int64 = 64 << 10
	DefaultReadTimeout        = 15 * time.Second
	DefaultWriteTimeout       = 15 * time.Second
	DefaultIdleTimeout        = 60 * time.Second
	// DefaultPingInterval keeps idle websocket shells from being reaped.
	DefaultPingInterval = 30 * time.Second
)

// Environment overrides, applied on top of .support/config.yaml.
const (
	EnvEnabled = "SUPPORT_BRIDGE_ENABLED"
	EnvHost    = "SUPPORT_BRIDGE_HOST"
	EnvPort    = "SUPPORT_BRIDGE_PORT"
)

// Settings captures runtime configuration for the bridge server. Port 0
// binds a free port; BaseURL on the running server reports it.
type Settings struct {
	Enabled      bool
	Host         string
	Port         int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	PingInterval time.Duration
}

// Overrides carries command-line values for serve. Nil fields keep the
// configured value.
type Overrides struct {
	Host *string
	Port *int
}

// DefaultSettings returns the settings used with no config, env or flags.
func DefaultSettings() Settings {
	return Settings{
		Enabled:      true,
		Host:         DefaultHost,
		Port:         DefaultPort,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		PingInterval: DefaultPingInterval,
	}
}

// SettingsFromConfig layers the bridge section of config.yaml and then the
// SUPPORT_BRIDGE_* environment over the defaults. Unparseable env values
// are ignored.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg != nil {
		s.mergeFile(cfg.File.Bridge)
	}
	s.mergeEnv(os.LookupEnv)
	s.normalize()
	return s
}

// Apply merges serve flags. Unlike env values, a bad flag is an error.
func (s Settings) Apply(o Overrides) (Settings, error) {
	if o.Host != nil {
		host := strings.TrimSpace(*o.Host)
		if host == "" {
			return s, fmt.Errorf("bridge: host must not be empty")
		}
		s.Host = host
	}
	if o.Port != nil {
		if !isBindablePort(*o.Port) {
			return s, fmt.Errorf("bridge: port %d out of range", *o.Port)
		}
		s.Port = *o.Port
	}
	s.normalize()
	return s, nil
}

// mergeFile applies config.yaml; a zero port there means "not set".
func (s *Settings) mergeFile(raw config.BridgeConfig) {
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	}
	if host := strings.TrimSpace(raw.Host); host != "" {
		s.Host = host
	}
	if raw.Port > 0 && isBindablePort(raw.Port) {
		s.Port = raw.Port
	}
}

func (s *Settings) mergeEnv(lookup func(string) (string, bool)) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}
	if enabled, err := strconv.ParseBool(get(EnvEnabled)); err == nil {
		s.Enabled = enabled
	}
	if host := get(EnvHost); host != "" {
		s.Host = host
	}
	if port, err := strconv.Atoi(get(EnvPort)); err == nil && isBindablePort(port) {
		s.Port = port
	}
}

func (s *Settings) normalize() {
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if !isBindablePort(s.Port) {
		s.Port = DefaultPort
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	for _, d := range []struct {
		field *time.Duration
		def   time.Duration
	}{
		{&s.ReadTimeout, DefaultReadTimeout},
		{&s.WriteTimeout, DefaultWriteTimeout},
		{&s.IdleTimeout, DefaultIdleTimeout},
		{&s.PingInterval, DefaultPingInterval},
	} {
		if *d.field <= 0 {
			*d.field = d.def
		}
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the configured HTTP base URL.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isBindablePort(port int) bool {
	return port >= 0 && port <= 65535
}
