package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces CLI settings in the environment (REGDASH_SERVER, ...).
const EnvPrefix = "REGDASH"

// CLI holds the settings for cmd/regdash.
type CLI struct {
	Server    string        `mapstructure:"server"`
	CacheFile string        `mapstructure:"cache_file"`
	OutDir    string        `mapstructure:"out_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log_level"`
	PDFFont   string        `mapstructure:"pdf_font"`
}

func CLIDefaults() CLI {
	return CLI{
		Server:    "http://localhost:8080",
		CacheFile: defaultCacheFile(),
		OutDir:    ".",
		Timeout:   15 * time.Second,
		LogLevel:  "warn",
	}
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "regdash", "registrations.json")
}

// LoadCLI resolves settings from flags bound to v, REGDASH_* variables, the
// config file and defaults, in that order. With cfgFile empty it looks for
// ~/.config/regdash/config.yaml and carries on without one.
func LoadCLI(v *viper.Viper, cfgFile string) (*CLI, error) {
	d := CLIDefaults()
	v.SetDefault("server", d.Server)
	v.SetDefault("cache_file", d.CacheFile)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("pdf_font", d.PDFFont)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "regdash"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c CLI
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Server == "" {
		return nil, fmt.Errorf("server address is required")
	}
	if c.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	c.Server = strings.TrimRight(c.Server, "/")
	return &c, nil
}
