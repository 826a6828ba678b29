// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Storage backends selectable with Backend.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"addr"`

	// Backend selects where the account slot is kept: file, memory, postgres or redis.
	Backend string `json:"backend"`

	// StoragePath is the storage file of the file backend.
	StoragePath string `json:"storage_path"`

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string `json:"database_dsn"`

	// RedisAddr, RedisPassword, RedisDB and RedisPrefix configure the redis backend.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	RedisPrefix   string `json:"redis_prefix"`

	// Slot is the key the account collection is stored under.
	Slot string `json:"slot"`

	// LogLevel is passed to the logger ("debug", "info", ...).
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey switch the server to HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Default returns the options used when nothing else is configured.
func Default() *Options {
	return &Options{
		Addr:        "localhost:8080",
		Backend:     BackendFile,
		StoragePath: "storage.json",
		RedisAddr:   "localhost:6379",
		RedisPrefix: "accountkeeper:",
		Slot:        "accounts",
		LogLevel:    "info",
		Config:      "config.json",
	}
}

// RegisterFlags binds the options to fs.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Addr, "a", o.Addr, "run on ip:port server")
	fs.StringVar(&o.Backend, "backend", o.Backend, "storage backend: file | memory | postgres | redis")
	fs.StringVar(&o.StoragePath, "path", o.StoragePath, "storage file of the file backend")
	fs.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "db address")
	fs.StringVar(&o.RedisAddr, "redis", o.RedisAddr, "redis address")
	fs.StringVar(&o.Slot, "slot", o.Slot, "storage slot name")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level")
	fs.StringVar(&o.TLSCert, "cert", o.TLSCert, "path to server TLS cert")
	fs.StringVar(&o.TLSKey, "key", o.TLSKey, "path to server TLS key")
	fs.StringVar(&o.Config, "config", o.Config, "path to config file")
	fs.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
}

// Parse parses args and then applies the config file and environment
// variables on top. It returns the resulting options.
func Parse(args []string) (*Options, error) {
	options := Default()
	fs := flag.NewFlagSet("accountkeeper", flag.ContinueOnError)
	options.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := options.Resolve(); err != nil {
		return nil, err
	}
	return options, nil
}

// Resolve applies the config file (if present) and environment overrides,
// then validates the result.
func (o *Options) Resolve() error {
	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	o.applyEnv()
	return o.Validate()
}

func (o *Options) applyEnv() {
	envs := map[string]*string{
		"SERVER_ADDRESS":  &o.Addr,
		"STORAGE_BACKEND": &o.Backend,
		"STORAGE_PATH":    &o.StoragePath,
		"DATABASE_DSN":    &o.DatabaseDSN,
		"REDIS_ADDR":      &o.RedisAddr,
		"REDIS_PASSWORD":  &o.RedisPassword,
		"STORAGE_SLOT":    &o.Slot,
		"LOG_LEVEL":       &o.LogLevel,
	}
	for name, dst := range envs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			o.RedisDB = n
		}
	}
}

// Validate checks that the selected backend has what it needs.
func (o *Options) Validate() error {
	switch o.Backend {
	case BackendFile:
		if o.StoragePath == "" {
			return errors.New("file backend requires a storage path")
		}
	case BackendMemory:
	case BackendPostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres backend requires a database DSN")
		}
	case BackendRedis:
		if o.RedisAddr == "" {
			return errors.New("redis backend requires an address")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", o.Backend)
	}
	if o.Slot == "" {
		return errors.New("slot name must not be empty")
	}
	return nil
}
