package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOREFRONT_"

const (
	DriverFile  = "file"
	DriverRedis = "redis"
	DriverMySQL = "mysql"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	API struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"api"`

	Storage struct {
		Driver   string `koanf:"driver"`
		FilePath string `koanf:"file_path"`
	} `koanf:"storage"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Sync struct {
		QueueSize int `koanf:"queue_size"`
	} `koanf:"sync"`

	HTTP struct {
		Addr string `koanf:"addr"`
	} `koanf:"http"`
}

func Default() Config {
	var c Config
	c.App.Name = "storefront"
	c.App.LogLevel = "info"
	c.App.LogFile = filepath.Join(stateDir(), "storefront.log")
	c.API.BaseURL = "http://localhost:8000"
	c.API.Timeout = 10 * time.Second
	c.Storage.Driver = DriverFile
	c.Storage.FilePath = filepath.Join(stateDir(), "state.json")
	c.Redis.Addr = "localhost:6379"
	c.MySQL.MaxOpenConns = 4
	c.MySQL.ConnMaxLifetime = 5 * time.Minute
	c.Sync.QueueSize = 16
	c.HTTP.Addr = ":8080"
	return c
}

// Load layers defaults, <dir>/base.yaml, <dir>/<envName>.yaml and STOREFRONT_
// environment variables, later sources winning. Missing files are skipped.
func Load(dir, envName string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	for _, name := range []string{"base.yaml", envName + ".yaml"} {
		if dir == "" || name == ".yaml" {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	// e.g. STOREFRONT_API__BASE_URL, STOREFRONT_STORAGE__DRIVER
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url required")
	}
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path required for file driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required for redis driver")
		}
	case DriverMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("mysql.dsn required for mysql driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Sync.QueueSize <= 0 {
		return fmt.Errorf("sync.queue_size must be positive")
	}
	return nil
}

func stateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}
