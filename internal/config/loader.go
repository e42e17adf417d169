package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrLoadConfig indicates a failure to read or parse the YAML configuration.
var ErrLoadConfig = errors.New("config load failed")

// DefaultEndpoint is the CloudHealth GraphQL endpoint.
const DefaultEndpoint = "https://apps.cloudhealthtech.com/graphql"

// Config represents the top-level configuration. Every field has a
// working default; a config file is optional.
type Config struct {
	API    APIConfig    `mapstructure:"api"    yaml:"api"`
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
	Vault  VaultConfig  `mapstructure:"vault"  yaml:"vault"`
}

// APIConfig holds connection settings for the CloudHealth GraphQL API.
type APIConfig struct {
	Endpoint     string        `mapstructure:"endpoint"      yaml:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
}

// BackupConfig contains backup output options.
type BackupConfig struct {
	OutputDirectory string `mapstructure:"output_directory" yaml:"output_directory"`
	TimestampFormat string `mapstructure:"timestamp_format" yaml:"timestamp_format"`
	ArchivePrefix   string `mapstructure:"archive_prefix"   yaml:"archive_prefix"`
}

// VaultConfig holds the optional HashiCorp Vault credential source.
// When Address and KVPath are both set, the API key may be read from
// Vault instead of prompting.
type VaultConfig struct {
	Address string `mapstructure:"address" yaml:"address,omitempty"`
	KVPath  string `mapstructure:"kv_path" yaml:"kv_path,omitempty"`
}

// Load reads the configuration from the given YAML file using Viper and
// unmarshals into the Config struct. An empty path loads defaults only.
func (c *Config) Load(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("api.endpoint", DefaultEndpoint)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.fetch_timeout", 60*time.Second)
	v.SetDefault("backup.output_directory", ".")
	v.SetDefault("backup.timestamp_format", "2006_01_02_15_04_05")
	v.SetDefault("backup.archive_prefix", "FlexReportsBackup")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: read config %s: %v", ErrLoadConfig, path, err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("%w: unmarshal config: %v", ErrLoadConfig, err)
	}

	return nil
}
