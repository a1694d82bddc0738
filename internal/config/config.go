package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trivia-service/internal/round"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Questions struct {
		Bank string `yaml:"bank"`
		File string `yaml:"file"`
		TTL  string `yaml:"ttl"`
	} `yaml:"questions"`
	Round struct {
		BaseScore    *int     `yaml:"base_score"`
		CommitDelay  string   `yaml:"commit_delay"`
		AdvanceDelay string   `yaml:"advance_delay"`
		MusicDelay   string   `yaml:"music_delay"`
		MusicTracks  []string `yaml:"music_tracks"`
	} `yaml:"round"`
	Audio struct {
		Enabled bool    `yaml:"enabled"`
		Assets  string  `yaml:"assets"`
		Volume  float64 `yaml:"volume"`
	} `yaml:"audio"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the zero config.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// RoundConfig resolves the round section on top of round.DefaultConfig.
func (c Config) RoundConfig() round.Config {
	rc := round.DefaultConfig()
	if c.Round.BaseScore != nil {
		rc.BaseScore = *c.Round.BaseScore
	}
	rc.CommitDelay = Duration(c.Round.CommitDelay, rc.CommitDelay)
	rc.AdvanceDelay = Duration(c.Round.AdvanceDelay, rc.AdvanceDelay)
	rc.MusicDelay = Duration(c.Round.MusicDelay, rc.MusicDelay)
	rc.MusicTracks = c.Round.MusicTracks
	return rc
}

// BankID returns the configured question bank, "hp" by default.
func (c Config) BankID() string {
	if c.Questions.Bank == "" {
		return "hp"
	}
	return c.Questions.Bank
}
