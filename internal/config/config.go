// Package config loads the global CLI configuration and YAML pipeline definitions.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "PREPROCESS"
	dirName   = ".preprocess"
)

// Global configuration structure.
type Global struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// RegistryPath is the SQLite file holding registered pipelines.
	RegistryPath string `mapstructure:"registry_path" yaml:"registry_path"`
	// Concurrency bounds the columns a step processes at once. 0 or 1 is sequential.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// Separator is the one-hot separator used when a definition does not set one.
	Separator string `mapstructure:"separator" yaml:"separator"`
}

// Dir returns ~/.preprocess.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve home dir")
	}

	return filepath.Join(home, dirName), nil
}

// Save writes c to cfgFile, or to ~/.preprocess/config.yaml when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}

		err = os.MkdirAll(dir, 0o755)
		if err != nil {
			return errors.Wrap(err, "unable to create config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "unable to marshal config")
	}

	err = os.WriteFile(path, b, 0o644)
	if err != nil {
		return errors.Wrap(err, "unable to write config")
	}

	return nil
}

// Load reads the configuration. Precedence: env > config file > defaults. A missing
// default config file is not an error; a missing explicit cfgFile is.
func Load(cfgFile string) (*Global, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("registry_path", filepath.Join(dir, "registry.db"))
	v.SetDefault("concurrency", 0)
	v.SetDefault("separator", "_")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "unable to read config")
		}
	}

	var c Global

	err = v.Unmarshal(&c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}

	return &c, nil
}
