package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host              string   `yaml:"host" json:"host"`
	BasePort          int      `yaml:"base_port" json:"base_port"`
	PortAttempts      int      `yaml:"port_attempts" json:"port_attempts"`
	UploadDir         string   `yaml:"upload_dir" json:"upload_dir"`
	RequestTimeoutSec int      `yaml:"request_timeout_sec" json:"request_timeout_sec"`
	ChunkSizeKB       int      `yaml:"chunk_size_kb" json:"chunk_size_kb"`
	GCTTLHours        int      `yaml:"gc_ttl_hours" json:"gc_ttl_hours"`
	GCIntervalMin     int      `yaml:"gc_interval_min" json:"gc_interval_min"`
	MobileAgents      []string `yaml:"mobile_agents" json:"mobile_agents"`
}

// Load читает YAML-конфигурацию, применяет ENV-переопределения и дефолты.
// Отсутствие файла не считается ошибкой: сервер умеет стартовать «из коробки».
func Load() (*Config, error) {
	path := getenv("CONFIG_PATH", "./config.yaml")

	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// работаем на дефолтах
	default:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("LISTEN_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("BASE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BasePort = n
		}
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("MOBILE_AGENTS"); v != "" {
		c.MobileAgents = splitComma(v)
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.BasePort <= 0 {
		c.BasePort = 8080
	}
	if c.PortAttempts <= 0 {
		c.PortAttempts = 100
	}
	if c.UploadDir == "" {
		c.UploadDir = "./uploads"
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 300
	}
	if c.ChunkSizeKB <= 0 {
		c.ChunkSizeKB = 64
	}
	if c.GCTTLHours <= 0 {
		c.GCTTLHours = 24
	}
	if c.GCIntervalMin <= 0 {
		c.GCIntervalMin = 30
	}
	if len(c.MobileAgents) == 0 {
		c.MobileAgents = []string{"mobile", "android", "iphone", "ipad"}
	}
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
