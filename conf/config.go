package conf

// App-specific configuration structs & data.
// Must live in a package of its own so other packages within the app can depend on it without
// causing a circular dependency.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"glasswing.dev/glasswing/core"
	"gopkg.in/yaml.v3"
)

var AppName = "Glasswing"

var BuildTimestamp string

var Config AppConfig

type AppConfig struct {
	DataDir  string // The directory containing `glasswing.yml` is where all data will be stored.
	Database struct {
		Url string `yaml:"url"`
	} `yaml:"database"`
	Web struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"web"`
	Dashboard struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"` // bcrypt hash, generated via `glasswing -bcrypt`
	} `yaml:"dashboard"`
	Screenshots struct {
		Timeout  time.Duration `yaml:"timeout"`
		Viewport struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"viewport"`
		Cache struct {
			Enabled      *bool         `yaml:"enabled"`
			TTL          time.Duration `yaml:"ttl"`
			MaxSizeBytes int64         `yaml:"max-size-bytes"`
		} `yaml:"cache"`
	} `yaml:"screenshots"`
	QrCodes struct {
		Cache struct {
			Enabled      *bool         `yaml:"enabled"`
			TTL          time.Duration `yaml:"ttl"`
			MaxSizeBytes int64         `yaml:"max-size-bytes"`
		} `yaml:"cache"`
	} `yaml:"qr-codes"`
	Logs struct {
		Retention  time.Duration `yaml:"retention"`
		Pagination struct {
			Limit int `yaml:"limit"`
		} `yaml:"pagination"`
	} `yaml:"logs"`
	Debug bool `yaml:"debug"`
}

var configYmlPath string

func ReadConfig(configYmlFile string) (AppConfig, error) {
	if BuildTimestamp == "" {
		BuildTimestamp = time.Now().Local().Format("2006-01-02 15:04:05")
	}

	c := &AppConfig{}
	var err error
	configYmlPath, err = filepath.Abs(configYmlFile)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to get path to config file: %w", err)
	}

	buf, err := os.ReadFile(configYmlPath)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to parse config: %w", err)
	}

	setDefaultsAndPrint(c)
	return *c, err
}

func setDefaultsAndPrint(c *AppConfig) {
	c.DataDir = filepath.Dir(configYmlPath)
	if c.Web.Host == "" {
		// Don’t replace this by string(…); the net.IP --> string conversion will fail.
		c.Web.Host = fmt.Sprintf("%s", core.GetOutboundIP())
	}
	if c.Web.Port == 0 {
		c.Web.Port = 9999
	}

	// Cache for screenshots is enabled by default; only disable it when testing or debugging.
	if c.Screenshots.Cache.Enabled == nil {
		c.Screenshots.Cache.Enabled = core.Ptr(true)
	}
	if c.Screenshots.Cache.TTL == 0 {
		c.Screenshots.Cache.TTL = 7 * 24 * time.Hour
	}
	if c.Screenshots.Cache.MaxSizeBytes == 0 {
		c.Screenshots.Cache.MaxSizeBytes = 1 * 1024 * 1024 * 1024 // 1GB
	}
	if c.Screenshots.Timeout == 0 {
		c.Screenshots.Timeout = 20 * time.Second
	}
	if c.Screenshots.Viewport.Width == 0 {
		c.Screenshots.Viewport.Width = 1200
	}
	if c.Screenshots.Viewport.Height == 0 {
		c.Screenshots.Viewport.Height = 630
	}

	// Cache for QR Codes is enabled by default; only disable it when testing or debugging.
	if c.QrCodes.Cache.Enabled == nil {
		c.QrCodes.Cache.Enabled = core.Ptr(true)
	}
	if c.QrCodes.Cache.TTL == 0 {
		c.QrCodes.Cache.TTL = 30 * 24 * time.Hour
	}
	if c.QrCodes.Cache.MaxSizeBytes == 0 {
		c.QrCodes.Cache.MaxSizeBytes = 256 * 1024 * 1024
	}

	if c.Logs.Retention == 0 {
		c.Logs.Retention = 30 * 24 * time.Hour
	}
	if c.Logs.Pagination.Limit == 0 {
		c.Logs.Pagination.Limit = 50
	}

	// Print warnings for unsafe settings, just as FYI.
	json, _ := json.MarshalIndent(*c, "", "\t")
	fmt.Println(string(json))
	if c.Debug {
		slog.Warn("Debug mode is enabled")
	}

	if !*c.Screenshots.Cache.Enabled {
		slog.Warn("Screenshot cache disabled; performance will be affected")
	}
	if !*c.QrCodes.Cache.Enabled {
		slog.Warn("Cache disabled for QR Codes; performance will be affected")
	}
}
