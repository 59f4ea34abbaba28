// Package config loads the application configuration (viper) and the two
// data files driving the pipeline: categorization rules and the account
// list. Data-file defects are never fatal; the pipeline degrades to
// default buckets and no account labels.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the application-level configuration.
type Config struct {
	InputDir     string `mapstructure:"input_dir"`
	OutputDir    string `mapstructure:"output_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`

	RulesFile    string `mapstructure:"rules_file"`
	AccountsFile string `mapstructure:"accounts_file"`

	Currency string `mapstructure:"currency"`
	Timezone string `mapstructure:"timezone"`

	// Seconds between directory scans in watch mode.
	WatchInterval int `mapstructure:"watch_interval"`
}

// Build assembles the configuration from defaults, an optional config
// file, environment variables (EXTRATOQ_*) and CLI flags, in increasing
// precedence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("currency", "BRL")
	v.SetDefault("timezone", "-03:00")
	v.SetDefault("watch_interval", 5)
	v.SetDefault("rules_file", "categorias.yaml")
	v.SetDefault("accounts_file", "contas.yaml")

	v.SetEnvPrefix("EXTRATOQ")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
