package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "KTAB"

type config struct {
	LogLevel string `mapstructure:"log-level"`
	// MemLimit is the memory limit of all tables in bytes. Zero means no
	// limit.
	MemLimit int    `mapstructure:"mem-limit"`
	Seed     uint32 `mapstructure:"seed"`
	MaxStack int    `mapstructure:"max-stack"`
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
	flags.Int("mem-limit", 0, "memory limit of all tables in bytes, 0 for no limit")
	flags.Uint32("seed", 0, "seed of the string hash, 0 for the default seed")
	flags.Int("max-stack", 0, "maximum depth of the call stack, 0 for the default")
}

// loadConfig merges flags, environment variables prefixed with KTAB_ and the
// config file, in this order of precedence.
func loadConfig(v *viper.Viper, fs afero.Fs, cmd *cobra.Command) (config, error) {
	v.SetFs(fs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config{}, fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
