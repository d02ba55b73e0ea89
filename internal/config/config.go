package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/Another0Noob/levelsync/internal/gdapi"
	"github.com/Another0Noob/levelsync/internal/uploads"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const DefaultPath = "levelsync.ini"

// Environment overrides, applied after the ini file.
const (
	EnvUploadsDir = "LEVELSYNC_UPLOADS_DIR"
	EnvIndexFile  = "LEVELSYNC_INDEX_FILE"
	EnvEndpoint   = "LEVELSYNC_ENDPOINT"
	EnvSecret     = "LEVELSYNC_SECRET"
)

type Config struct {
	Levels Levels
	Server Server
}

type Levels struct {
	UploadsDir string
	IndexFile  string
	Extension  string
}

type Server struct {
	Endpoint      string
	Secret        string
	RatePerSecond float64
	Timeout       time.Duration
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Levels: Levels{
			UploadsDir: "uploads",
			IndexFile:  "levels.json",
			Extension:  uploads.DefaultExtension,
		},
		Server: Server{
			Endpoint:      gdapi.DefaultEndpoint,
			Secret:        gdapi.DefaultSecret,
			RatePerSecond: 2,
		},
	}
}

// Load reads the ini file at path on top of the defaults. A missing file is
// not an error.
//
//	[levels]
//	uploads_dir = uploads
//	index_file  = levels.json
//	extension   = .gdr2
//
//	[server]
//	endpoint        = http://www.boomlings.com/database/downloadGJLevel22.php
//	secret          = Wmfd2893gb7
//	rate_per_second = 2
//	; optional, no request timeout when unset
//	timeout         = 30s
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}

	sec := cfg.Section("levels")
	c.Levels.UploadsDir = sec.Key("uploads_dir").MustString(c.Levels.UploadsDir)
	c.Levels.IndexFile = sec.Key("index_file").MustString(c.Levels.IndexFile)
	c.Levels.Extension = sec.Key("extension").MustString(c.Levels.Extension)

	sec = cfg.Section("server")
	c.Server.Endpoint = sec.Key("endpoint").MustString(c.Server.Endpoint)
	c.Server.Secret = sec.Key("secret").MustString(c.Server.Secret)
	if sec.HasKey("rate_per_second") {
		rps, err := sec.Key("rate_per_second").Float64()
		if err != nil {
			return c, fmt.Errorf("config %s: server.rate_per_second: %w", path, err)
		}
		c.Server.RatePerSecond = rps
	}
	if sec.HasKey("timeout") {
		d, err := sec.Key("timeout").Duration()
		if err != nil {
			return c, fmt.Errorf("config %s: server.timeout: %w", path, err)
		}
		c.Server.Timeout = d
	}

	return c, nil
}

// LoadEnvFile loads variables from a .env file if one exists. Variables
// already set in the environment win.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with any LEVELSYNC_* variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvUploadsDir); v != "" {
		c.Levels.UploadsDir = v
	}
	if v := os.Getenv(EnvIndexFile); v != "" {
		c.Levels.IndexFile = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Server.Endpoint = v
	}
	if v := os.Getenv(EnvSecret); v != "" {
		c.Server.Secret = v
	}
}

// Client builds a level database client from the server settings.
func (c Config) Client() *gdapi.Client {
	return gdapi.NewClient(
		gdapi.WithEndpoint(c.Server.Endpoint),
		gdapi.WithSecret(c.Server.Secret),
		gdapi.WithTimeout(c.Server.Timeout),
		gdapi.WithRateLimit(c.Server.RatePerSecond),
	)
}
