package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID         = "servctl"
	DefaultListenAddr         = ":8080"
	DefaultPath               = "/ws"
	DefaultHealthPath         = "/health"
	DefaultWriteTimeout       = 5 * time.Second
	DefaultPingInterval       = 30 * time.Second
	DefaultPongTimeout        = 60 * time.Second
	DefaultReadLimit          = 64 * 1024
	DefaultTmuxPath           = "tmux"
	DefaultHealthInterval     = 30 * time.Second
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultRecorderBatchSize  = 20
	DefaultRecorderFlushEvery = 1 * time.Minute
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// Server defaults
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultPath
	}
	if c.Server.HealthPath == "" {
		c.Server.HealthPath = DefaultHealthPath
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.PongTimeout == 0 {
		c.Server.PongTimeout = DefaultPongTimeout
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}

	for i := range c.Sessions {
		if c.Sessions[i].Target == "" {
			c.Sessions[i].Target = c.Sessions[i].Name
		}
	}

	if c.Bridge.TmuxPath == "" {
		c.Bridge.TmuxPath = DefaultTmuxPath
	}

	if c.Health.Interval == 0 {
		c.Health.Interval = DefaultHealthInterval
	}

	// Database defaults
	if c.Database.Timescale.Port == 0 {
		c.Database.Timescale.Port = DefaultDBPort
	}
	if c.Database.Timescale.SSLMode == "" {
		c.Database.Timescale.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Timescale.MaxConns == 0 {
		c.Database.Timescale.MaxConns = DefaultMaxConns
	}

	// Recorder defaults
	if c.Recorder.BatchSize == 0 {
		c.Recorder.BatchSize = DefaultRecorderBatchSize
	}
	if c.Recorder.FlushInterval == 0 {
		c.Recorder.FlushInterval = DefaultRecorderFlushEvery
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
