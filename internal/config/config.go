// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Signet. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the persisted application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language  string `mapstructure:"language" yaml:"language"`
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir"`
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Signet")
		default:
			configDir = "/etc/signet"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "signet")
	}

	return filepath.Join(configDir, "signet.yaml"), nil
}

// LoadConfig resolves configuration from defaults, config files, the
// environment and command-line flags, in ascending precedence.
func LoadConfig(cmd *cobra.Command, defaults map[string]any, explicitPath string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("signet")
	v.SetConfigType("yaml")

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, the defaults carry us.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("signet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	// Mirror the resolved values into the global viper so the TUI can
	// read them without re-parsing.
	viper.Set("database.type", c.Database.Type)
	viper.Set("database.dsn", c.Database.Dsn)
	viper.Set("language", c.Language)
	viper.Set("backup_dir", c.BackupDir)

	return c, nil
}

// WriteConfigFile persists the configuration to the user (or system)
// config path, creating the directory when needed.
func WriteConfigFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600 since the DSN may carry credentials.
	return os.WriteFile(path, data, 0600)
}
