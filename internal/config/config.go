package config

import "time"

// Config is the root configuration for a servctl instance.
type Config struct {
	Instance      InstanceConfig  `yaml:"instance"`
	Server        ServerConfig    `yaml:"server"`
	Sessions      []SessionConfig `yaml:"sessions"`
	RestartScript string          `yaml:"restart_script"`
	Bridge        BridgeConfig    `yaml:"bridge"`
	Dispatch      DispatchConfig  `yaml:"dispatch"`
	Health        HealthConfig    `yaml:"health"`
	Database      DatabaseConfig  `yaml:"database"`
	Recorder      RecorderConfig  `yaml:"recorder"`
	Log           LogConfig       `yaml:"log"`
}

// InstanceConfig identifies this host.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ServerConfig holds the websocket listener settings.
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	Path         string        `yaml:"path"`        // websocket endpoint
	HealthPath   string        `yaml:"health_path"` // JSON health endpoint
	AuthToken    string        `yaml:"auth_token"`  // empty = unauthenticated
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"` // negative disables keepalive
	PongTimeout  time.Duration `yaml:"pong_timeout"`
	ReadLimit    int64         `yaml:"read_limit"`
}

// SessionConfig describes one controllable session.
type SessionConfig struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"` // tmux target, defaults to name
}

// BridgeConfig holds session bridge settings.
type BridgeConfig struct {
	TmuxPath string `yaml:"tmux_path"`
}

// DispatchConfig holds command policy.
type DispatchConfig struct {
	DisabledCommands []string `yaml:"disabled_commands"`
}

// HealthConfig holds health sampler settings.
type HealthConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DatabaseConfig holds the optional TimescaleDB connection for health samples.
type DatabaseConfig struct {
	Timescale DBConfig `yaml:"timescale"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Timescale.Host != ""
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RecorderConfig holds health sample batch writer settings.
type RecorderConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SessionNames returns the configured session names in order.
func (c *Config) SessionNames() []string {
	names := make([]string, len(c.Sessions))
	for i, s := range c.Sessions {
		names[i] = s.Name
	}
	return names
}
