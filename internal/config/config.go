// Package config handles configuration loading and validation of esql
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration of the esql command
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Database DatabaseConfig `mapstructure:"database"`
	Output   OutputConfig   `mapstructure:"output"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
}

// SourceConfig selects the base relation
type SourceConfig struct {
	Kind  string `mapstructure:"kind"` // csv, sqlite or postgres
	Path  string `mapstructure:"path"` // csv or sqlite file
	Table string `mapstructure:"table"`
}

// DatabaseConfig holds the postgres credentials
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	DSN      string `mapstructure:"dsn"` // overrides every other field
}

type OutputConfig struct {
	Format    string `mapstructure:"format"` // table, csv or json
	Color     bool   `mapstructure:"color"`
	Separator string `mapstructure:"separator"` // field separator of the generated awk
}

type EngineConfig struct {
	Parallel     bool `mapstructure:"parallel"`
	LinearLookup bool `mapstructure:"linear_lookup"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func defaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:  "",
			Path:  "",
			Table: "sales",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Output: OutputConfig{
			Format:    "table",
			Color:     false,
			Separator: " ",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source.kind", cfg.Source.Kind)
	v.SetDefault("source.path", cfg.Source.Path)
	v.SetDefault("source.table", cfg.Source.Table)
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)
	v.SetDefault("database.dsn", cfg.Database.DSN)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("output.separator", cfg.Output.Separator)
	v.SetDefault("engine.parallel", cfg.Engine.Parallel)
	v.SetDefault("engine.linear_lookup", cfg.Engine.LinearLookup)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
}

// credentials of a dotenv file, both ESQL_DATABASE_USER and the bare USER are
// accepted
var envFileKeys = map[string]string{
	"user":     "database.user",
	"password": "database.password",
	"dbname":   "database.dbname",
	"host":     "database.host",
	"port":     "database.port",
}

// loadEnvFile reads a dotenv file as a layer above the defaults, a missing
// file is not an error
func loadEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	e := viper.New()
	e.SetConfigFile(path)
	e.SetConfigType("env")
	if err := e.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	for _, key := range e.AllKeys() {
		val := e.GetString(key)
		if target, ok := envFileKeys[key]; ok {
			v.SetDefault(target, val)
			continue
		}
		if strings.HasPrefix(key, "esql_") {
			// ESQL_DATABASE_DBNAME -> database.dbname
			x := strings.SplitN(strings.TrimPrefix(key, "esql_"), "_", 2)
			if len(x) == 2 {
				v.SetDefault(x[0]+"."+x[1], val)
			}
		}
	}
	return nil
}

// Load reads configuration from the defaults, the dotenv file, the config
// file and the environment, later layers win
func Load(configPath string, envFile string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	setDefaults(v, cfg)

	if err := loadEnvFile(v, envFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("ESQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("esql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.esql")

		// no config file is fine, a broken one is not
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are sensible
func (self *Config) Validate() error {
	switch strings.ToLower(self.Source.Kind) {
	case "", "csv", "sqlite", "postgres":
		break
	default:
		return fmt.Errorf("invalid source kind: %s", self.Source.Kind)
	}

	if self.Database.Port < 1 || self.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", self.Database.Port)
	}

	switch strings.ToLower(self.Output.Format) {
	case "table", "csv", "json":
		break
	default:
		return fmt.Errorf("invalid output format: %s", self.Output.Format)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(self.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", self.Log.Level)
	}
	return nil
}

// PostgresDSN returns the connection string of the database section
func (self *DatabaseConfig) PostgresDSN() string {
	if self.DSN != "" {
		return self.DSN
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(self.Host, strconv.Itoa(self.Port)),
		Path:   "/" + self.DBName,
	}
	if self.User != "" {
		if self.Password != "" {
			u.User = url.UserPassword(self.User, self.Password)
		} else {
			u.User = url.User(self.User)
		}
	}
	if self.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{self.SSLMode}}.Encode()
	}
	return u.String()
}
