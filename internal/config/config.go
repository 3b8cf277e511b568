package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// WriteTimeoutSeconds bounds response writes; 0 leaves them unbounded so long
		// gateway calls are not cut off.
		WriteTimeoutSeconds int `yaml:"write_timeout"`
		// RecordOnAnalyze stores every successful analysis server-side.
		RecordOnAnalyze bool `yaml:"record_on_analyze"`
	} `yaml:"server"`

	Log struct {
		Format string `yaml:"format"`
		Level  string `yaml:"level"`
	} `yaml:"log"`

	AI struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		Temperature float32 `yaml:"temperature"`
		// APIKeyEnv names the variable holding the credential; the key itself is
		// never kept in config.
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"ai"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Camera struct {
		DeviceClass string `yaml:"device_class"`
		Command     string `yaml:"command"`
		File        string `yaml:"file"`
	} `yaml:"camera"`

	Client struct {
		Endpoint     string `yaml:"endpoint"`
		HistoryLimit int    `yaml:"history_limit"`
	} `yaml:"client"`
}

// Path returns config.yaml unless CONFIG_PATH is set.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault is Load, but a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Format == "" {
		c.Log.Format = "cli"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = "LOVABLE_API_KEY"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "data/agro.db"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "plant-snapshots"
	}
	if c.Camera.DeviceClass == "" {
		c.Camera.DeviceClass = "desktop"
	}
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = fmt.Sprintf("http://127.0.0.1:%d", c.Server.Port)
	}
	if c.Client.HistoryLimit <= 0 || c.Client.HistoryLimit > 10 {
		c.Client.HistoryLimit = 10
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection URL.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
