package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// cliConfig locates the local reference files and conversation database.
type cliConfig struct {
	SchedulePath   string `yaml:"schedule_path"`
	InductionsPath string `yaml:"inductions_path"`
	DBPath         string `yaml:"db_path"`
}

func defaultConfig() cliConfig {
	return cliConfig{DBPath: "conversations.db"}
}

// loadConfig reads path when it exists, then applies environment overrides.
// A missing file is not an error unless the path was set explicitly.
func loadConfig(path string, explicit bool) (cliConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cliConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return cliConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.SchedulePath, "MAINTENANCE_SCHEDULE_PATH")
	envOverride(&cfg.InductionsPath, "INDUCTIONS_PATH")
	envOverride(&cfg.DBPath, "CONVERSATION_DB_PATH")
	return cfg, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
