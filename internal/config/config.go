package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	DGIS struct {
		APIKey   string `yaml:"api_key"`
		RegionID string `yaml:"region_id"`
	} `yaml:"dgis"`
	Notifications struct {
		CleanupIntervalHours int `yaml:"cleanup_interval_hours"`
		ReadMaxAgeHours      int `yaml:"read_max_age_hours"`
	} `yaml:"notifications"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	if cfg.Notifications.CleanupIntervalHours == 0 {
		cfg.Notifications.CleanupIntervalHours = 12
	}
	if cfg.Notifications.ReadMaxAgeHours == 0 {
		cfg.Notifications.ReadMaxAgeHours = 24 * 7
	}
	return cfg
}
