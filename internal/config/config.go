package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string
	DBPath       string
	MatchConfig  string // optional YAML with matching tuning
	Matching     Matching
}

func Load() (Config, error) {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "32"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	cfg := Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/order-intake.log"),
		DBPath:       getenv("DB_PATH", "data/order-intake.db"),
		MatchConfig:  os.Getenv("MATCH_CONFIG"),
	}
	m, err := LoadMatching(cfg.MatchConfig)
	if err != nil {
		return Config{}, err
	}
	cfg.Matching = m
	return cfg, nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
