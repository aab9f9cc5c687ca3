// Package config loads server configuration from a YAML file and the environment.
package config

import (
	"os"

	"euchre-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the euchre server
type Config struct {
	loaded   bool
	Address  string `yaml:"address" envconfig:"address"`
	LogLevel string `yaml:"logLevel" envconfig:"log_level"`
	Redis    struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Game struct {
		TargetScore   int `yaml:"targetScore" envconfig:"target_score"`
		NextHandDelay int `yaml:"nextHandDelay" envconfig:"next_hand_delay"`
	} `yaml:"game"`
}

var config Config

func defaults() Config {
	c := Config{
		Address:  ":5080",
		LogLevel: "info",
	}
	c.Game.TargetScore = 10
	c.Game.NextHandDelay = 5

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; the defaults and environment apply.
func Load() error {
	config = defaults()

	configFile := util.Getenv("EUCHRE_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("euchre", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
