// Package enbconfig loads the enb CLI's own settings (distinct from the
// per-project rule-file configuration the platform core evaluates) by
// layering flags over environment over a config file over built-in
// defaults.
package enbconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the CLI's own runtime configuration.
type Config struct {
	Mode       string `mapstructure:"mode"`
	LogLevel   string `mapstructure:"log_level"`
	CWD        string `mapstructure:"cwd"`
	ConfigFile string `mapstructure:"config_file"`
}

// Load builds a Config by layering (lowest to highest precedence):
// built-in defaults (mode: YENV if set, else "development"), an
// optional YAML config file, environment variables prefixed ENB_, then
// the command's own flags.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	defaultMode := "development"
	if yenv := os.Getenv("YENV"); yenv != "" {
		defaultMode = yenv
	}
	v.SetDefault("mode", defaultMode)
	v.SetDefault("log_level", "info")

	if wd, err := os.Getwd(); err == nil {
		v.SetDefault("cwd", wd)
	}

	if configFile := resolveConfigFile(cmd); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("ENB")
	v.AutomaticEnv()

	bindFlag(v, "mode", cmd, "mode")
	bindFlag(v, "log_level", cmd, "log-level")
	bindFlag(v, "cwd", cmd, "dir")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	absDir, err := filepath.Abs(cfg.CWD)
	if err != nil {
		return nil, fmt.Errorf("resolve cwd %s: %w", cfg.CWD, err)
	}
	cfg.CWD = absDir

	return cfg, nil
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, flagName string) {
	if cmd == nil {
		return
	}
	if flag := cmd.Flags().Lookup(flagName); flag != nil {
		_ = v.BindPFlag(key, flag)
	}
}

func resolveConfigFile(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	if flag := cmd.Flags().Lookup("config"); flag != nil {
		if value, err := cmd.Flags().GetString("config"); err == nil && value != "" {
			return value
		}
	}
	if _, err := os.Stat("enb.yaml"); err == nil {
		return "enb.yaml"
	}
	return ""
}
