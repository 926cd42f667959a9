package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickgao/servctl/internal/dispatch"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Server.validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Sessions))
	for i, s := range c.Sessions {
		if s.Name == "" {
			return fmt.Errorf("sessions[%d].name is required", i)
		}
		if strings.ContainsAny(s.Name, " \t") {
			return fmt.Errorf("sessions[%d].name %q must not contain whitespace", i, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("sessions[%d].name %q is duplicated", i, s.Name)
		}
		seen[s.Name] = true
	}

	for _, k := range c.Dispatch.DisabledCommands {
		if !dispatch.IsKeyword(k) {
			return fmt.Errorf("dispatch.disabled_commands: unknown command %q", k)
		}
	}

	if c.Health.Interval <= 0 {
		return errors.New("health.interval must be > 0")
	}

	if c.Database.Enabled() {
		if err := c.Database.Timescale.validate("database.timescale"); err != nil {
			return err
		}
		if c.Recorder.BatchSize < 1 {
			return errors.New("recorder.batch_size must be >= 1")
		}
		if c.Recorder.FlushInterval <= 0 {
			return errors.New("recorder.flush_interval must be > 0")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error", "err":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}

	return nil
}

func (s *ServerConfig) validate() error {
	if s.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("server.path %q must start with /", s.Path)
	}
	if !strings.HasPrefix(s.HealthPath, "/") {
		return fmt.Errorf("server.health_path %q must start with /", s.HealthPath)
	}
	if s.Path == s.HealthPath {
		return fmt.Errorf("server.path and server.health_path must differ, both are %q", s.Path)
	}
	if s.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be > 0")
	}
	if s.PingInterval > 0 && s.PongTimeout <= s.PingInterval {
		return fmt.Errorf("server.pong_timeout (%s) must exceed server.ping_interval (%s)", s.PongTimeout, s.PingInterval)
	}
	if s.ReadLimit < 1 {
		return errors.New("server.read_limit must be >= 1")
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
