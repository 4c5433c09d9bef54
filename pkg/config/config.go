/*
Copyright 2024 The logstack authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads deployer settings from the environment and an
// optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"sigs.k8s.io/yaml"
)

// EnvFile is the optional dotenv file loaded before the environment is read.
const EnvFile = ".env"

// Config holds the deployer settings. Fields are populated from LOGSTACK_*
// environment variables; a YAML config file can override them, which is
// mainly useful for relocating per-component manifest directories.
type Config struct {
	// ManifestRoot is the directory holding one manifest directory per
	// stack component.
	ManifestRoot string `env:"LOGSTACK_MANIFEST_ROOT" envDefault:"deploy" json:"manifestRoot,omitempty"`

	// ComponentDirs maps a component name to its manifest directory,
	// overriding the <root>/<component> convention.
	ComponentDirs map[string]string `env:"-" json:"componentDirs,omitempty"`

	// PollInterval is the sleep between deletion polls.
	PollInterval time.Duration `env:"LOGSTACK_POLL_INTERVAL" envDefault:"1s" json:"-"`

	// DeleteBudget is the number of deletion poll attempts before the
	// waiter gives up.
	DeleteBudget int `env:"LOGSTACK_DELETE_BUDGET" envDefault:"15" json:"deleteBudget,omitempty"`

	// LogLevel selects the logging verbosity (debug, info, warn, error).
	LogLevel string `env:"LOGSTACK_LOG_LEVEL" envDefault:"info" json:"logLevel,omitempty"`

	// GCloudKey is the base64-encoded service account key provisioned as
	// the Elasticsearch snapshot backup secret. Never written to disk.
	GCloudKey string `env:"LOGSTACK_GCLOUD_KEY" json:"-"`
}

// Load reads the optional dotenv file, parses the environment and finally
// applies the YAML config file at path, when given.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return nil, fmt.Errorf("loading %s failed: %w", EnvFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment failed: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s failed: %w", path, err)
		}
	}

	if cfg.DeleteBudget < 1 {
		return nil, fmt.Errorf("the delete budget must be at least 1")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("the poll interval must be positive")
	}

	return cfg, nil
}

// ComponentDir resolves the manifest directory for a component.
func (c *Config) ComponentDir(name string) string {
	if dir, ok := c.ComponentDirs[name]; ok {
		return dir
	}

	return filepath.Join(c.ManifestRoot, name)
}
