package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
	"pointsrv/internal/shared/types"
)

// Default returns the built-in configuration: localhost:9090, a 1-3s
// simulated workload and three simulated clients.
func Default() *types.Config {
	return &types.Config{
		ServerConf: types.ServerConf{
			Host:            "localhost",
			Port:            9090,
			AcceptTimeoutMs: 500,
			ReadTimeoutSec:  30,
			DelayMinMs:      1000,
			DelayMaxMs:      3000,
		},
		ClientConf: types.ClientConf{
			Count:          3,
			PauseMinMs:     500,
			PauseMaxMs:     2000,
			DialTimeoutSec: 5,
			IOTimeoutSec:   120,
		},
		LogConf: types.LogConf{
			Level: "info",
		},
	}
}

// LoadIni overlays pointsrv.ini onto cfg. Keys absent from the file keep the
// values already in cfg, and a missing file leaves cfg untouched.
// Environment overrides are applied last.
func LoadIni(cfg *types.Config, fileName string) error {
	if _, err := os.Stat(fileName); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat config file: %w", err)
		}
	} else {
		iniFile, err := ini.Load(fileName)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", fileName, err)
		}
		if err := iniFile.MapTo(cfg); err != nil {
			return fmt.Errorf("failed to map %s: %w", fileName, err)
		}
	}
	overrideFromEnvInt(&cfg.ServerConf.Port, "POINTSRV_PORT")
	overrideFromEnvString(&cfg.LogConf.Level, "POINTSRV_LOG_LEVEL")
	return Validate(cfg)
}

// Validate rejects settings the server or clients cannot run with.
func Validate(cfg *types.Config) error {
	s, c := cfg.ServerConf, cfg.ClientConf
	switch {
	case s.Port < 0 || s.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", s.Port)
	case s.AcceptTimeoutMs <= 0:
		return fmt.Errorf("server.accept_timeout_ms must be positive")
	case s.ReadTimeoutSec <= 0:
		return fmt.Errorf("server.read_timeout_sec must be positive")
	case s.DelayMinMs < 0 || s.DelayMinMs > s.DelayMaxMs:
		return fmt.Errorf("server delay range invalid: [%d, %d] ms", s.DelayMinMs, s.DelayMaxMs)
	case c.Count < 0:
		return fmt.Errorf("client.count must not be negative")
	case c.PauseMinMs < 0 || c.PauseMinMs > c.PauseMaxMs:
		return fmt.Errorf("client pause range invalid: [%d, %d] ms", c.PauseMinMs, c.PauseMaxMs)
	case c.DialTimeoutSec <= 0 || c.IOTimeoutSec <= 0:
		return fmt.Errorf("client timeouts must be positive")
	}
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
