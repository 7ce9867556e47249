package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/HalflingHelper/hash-tables/hashtable"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Config is the configuration of a single table node
type Config struct {
	Name              string `json:"name"`
	Addr              string `json:"addr"`
	Port              string `json:"port"`
	InitialBaseSize   int    `json:"initial_base_size"`
	LegacyDeleteCount bool   `json:"legacy_delete_count"`
	LogLevel          string `json:"log_level"`
}

const (
	DefaultName     = "table0"
	DefaultAddr     = "localhost"
	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"
)

// Environment variables read by LoadConfig
const (
	EnvName              = "HT_NAME"
	EnvAddr              = "HT_ADDR"
	EnvPort              = "HT_PORT"
	EnvInitialBaseSize   = "HT_INITIAL_BASE_SIZE"
	EnvLegacyDeleteCount = "HT_LEGACY_DELETE_COUNT"
	EnvLogLevel          = "HT_LOG_LEVEL"
)

func CreateConfig(name, addr, port string, initialBaseSize int) *Config {
	if name == "" {
		panic("Node name must not be empty")
	}
	if port == "" {
		panic("No port given")
	}
	if initialBaseSize < 0 {
		panic("Initial base size must not be negative")
	}
	if initialBaseSize < hashtable.MinBaseSize {
		initialBaseSize = hashtable.MinBaseSize
	}

	return &Config{
		Name:            name,
		Addr:            addr,
		Port:            port,
		InitialBaseSize: initialBaseSize,
		LogLevel:        DefaultLogLevel,
	}
}

// LoadConfig builds a config from the environment, after loading envFile if
// it exists. An empty envFile means DefaultEnvFile.
func LoadConfig(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "loading %s", envFile)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, "loading %s", envFile)
	}

	c := &Config{
		Name:            getEnv(EnvName, DefaultName),
		Addr:            getEnv(EnvAddr, DefaultAddr),
		Port:            getEnv(EnvPort, DefaultPort),
		InitialBaseSize: hashtable.MinBaseSize,
		LogLevel:        getEnv(EnvLogLevel, DefaultLogLevel),
	}

	if v := os.Getenv(EnvInitialBaseSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", EnvInitialBaseSize)
		}
		c.InitialBaseSize = n
	}
	if v := os.Getenv(EnvLegacyDeleteCount); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", EnvLegacyDeleteCount)
		}
		c.LegacyDeleteCount = b
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Name == "" {
		result = multierror.Append(result, errors.New("name must not be empty"))
	}
	if c.Port == "" {
		result = multierror.Append(result, errors.New("port must not be empty"))
	} else if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid port %q", c.Port))
	}
	if c.InitialBaseSize < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid initial base size %d", c.InitialBaseSize))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log level"))
	}
	return result.ErrorOrNil()
}

// TableOptions translates the config into options for a new table
func (c *Config) TableOptions() []hashtable.Option {
	var opts []hashtable.Option
	if c.LegacyDeleteCount {
		opts = append(opts, hashtable.WithLegacyDeleteCount())
	}
	return opts
}

// ApplyLogLevel sets the global logger level. Invalid levels fall back to info.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level %q, using %s", c.LogLevel, DefaultLogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func (c *Config) SerializeConfig() []byte {
	b, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	return b
}

func DeserializeConfig(b []byte) *Config {
	var c *Config
	err := json.Unmarshal(b, &c)
	if err != nil {
		panic(err)
	}
	return c
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
