// Package config loads the client's INI-style configuration file.
// Adapted from the teacher's internal/config package: same hand-rolled
// `[Section]` / `key = value` parser (no third-party INI library
// appears anywhere in the retrieval pack, so this stays stdlib-only —
// see DESIGN.md), repointed at this domain's sections.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full set of settings the client reads at startup.
type Config struct {
	World   WorldConfig
	Cache   CacheConfig
	Session SessionConfig
}

// WorldConfig describes the realm this client connects to.
type WorldConfig struct {
	RealmAddress string // host:port
}

// CacheConfig describes the player-name cache's backing MySQL store.
type CacheConfig struct {
	Host     string
	Port     int
	UserName string
	Password string
	DBName   string
}

// SessionConfig holds the periods of the scheduler's built-in events
// (spec.md §4.7), in milliseconds as stored on disk.
type SessionConfig struct {
	KeepAlivePeriod time.Duration
	PingPeriod      time.Duration
	SavePeriod      time.Duration
}

// LoadConfig reads and parses filename.
func LoadConfig(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}

	cfg := defaultConfig()
	if err := parseINI(string(content), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", filename, err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			KeepAlivePeriod: time.Minute,
			PingPeriod:      30 * time.Second,
			SavePeriod:      time.Minute,
		},
	}
}

func parseINI(content string, cfg *Config) error {
	lines := strings.Split(content, "\n")
	var section string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.Trim(line, "[]")
			continue
		}
		if !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if err := setConfigValue(cfg, section, key, value); err != nil {
			return err
		}
	}
	return nil
}

func setConfigValue(cfg *Config, section, key, value string) error {
	switch section {
	case "World":
		switch key {
		case "RealmAddress":
			cfg.World.RealmAddress = value
		}
	case "Cache":
		switch key {
		case "Host":
			cfg.Cache.Host = value
		case "Port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid Cache.Port value: %s", value)
			}
			cfg.Cache.Port = port
		case "UserName":
			cfg.Cache.UserName = value
		case "Password":
			cfg.Cache.Password = value
		case "DBName":
			cfg.Cache.DBName = value
		}
	case "Session":
		switch key {
		case "KeepAlivePeriodMS":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid Session.KeepAlivePeriodMS value: %s", value)
			}
			cfg.Session.KeepAlivePeriod = time.Duration(ms) * time.Millisecond
		case "PingPeriodMS":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid Session.PingPeriodMS value: %s", value)
			}
			cfg.Session.PingPeriod = time.Duration(ms) * time.Millisecond
		case "SavePeriodMS":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid Session.SavePeriodMS value: %s", value)
			}
			cfg.Session.SavePeriod = time.Duration(ms) * time.Millisecond
		}
	}
	return nil
}
