package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdempoker-server/internal/util"
)

// Config provides configuration for the poker server
type Config struct {
	loaded     bool
	ListenAddr string `yaml:"listenAddr" envconfig:"listen_addr"`
	Game       struct {
		SmallBlind    int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind      int `yaml:"bigBlind" envconfig:"big_blind"`
		StartingStack int `yaml:"startingStack" envconfig:"starting_stack"`
		MaxSeats      int `yaml:"maxSeats" envconfig:"max_seats"`
	} `yaml:"game"`
	EquityTrials int `yaml:"equityTrials" envconfig:"equity_trials"`
	Pacing       struct {
		BotThinkSeconds  int `yaml:"botThinkSeconds" envconfig:"bot_think_seconds"`
		ShowdownSeconds  int `yaml:"showdownSeconds" envconfig:"showdown_seconds"`
		FoldedWinSeconds int `yaml:"foldedWinSeconds" envconfig:"folded_win_seconds"`
	} `yaml:"pacing"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// DefaultConfig returns a config with every default applied
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":5000"
	}

	if c.Game.SmallBlind == 0 {
		c.Game.SmallBlind = 5
	}

	if c.Game.BigBlind == 0 {
		c.Game.BigBlind = 10
	}

	if c.Game.StartingStack == 0 {
		c.Game.StartingStack = 1000
	}

	if c.Game.MaxSeats == 0 {
		c.Game.MaxSeats = 8
	}

	if c.EquityTrials == 0 {
		c.EquityTrials = 300
	}

	if c.Pacing.BotThinkSeconds == 0 {
		c.Pacing.BotThinkSeconds = 1
	}

	if c.Pacing.ShowdownSeconds == 0 {
		c.Pacing.ShowdownSeconds = 5
	}

	if c.Pacing.FoldedWinSeconds == 0 {
		c.Pacing.FoldedWinSeconds = 3
	}
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

// Load will load the configuration. A missing config file is not an error;
// the environment and defaults still apply.
func Load() error {
	config = Config{}

	configFile := util.Getenv("HP_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("hp", &config); err != nil {
		return err
	}

	config.applyDefaults()
	config.loaded = true

	return nil
}
