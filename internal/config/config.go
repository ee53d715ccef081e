package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	StorageBackend string `yaml:"storage_backend"`
	KVFile         string `yaml:"kv_file"`
	SQLitePath     string `yaml:"sqlite_path"`
	PostgresDSN    string `yaml:"postgres_dsn"`
	MongoURL       string `yaml:"mongo_url"`
	MongoDatabase  string `yaml:"mongo_database"`

	HTTPAddr     string   `yaml:"http_addr"`
	APIToken     string   `yaml:"api_token"`
	APITokenHash string   `yaml:"api_token_hash"`
	CORSOrigins  []string `yaml:"cors_origins"`
	TimeZone     string   `yaml:"timezone"`

	Notifier       string `yaml:"notifier"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	ReminderTitle  string `yaml:"reminder_title"`
	ReminderBody   string `yaml:"reminder_body"`

	OpenAIToken string        `yaml:"openai_token"`
	OpenAIModel string        `yaml:"openai_model"`
	AdviceTTL   time.Duration `yaml:"advice_ttl"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env, the optional CONFIG_FILE and the process environment once.
func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv(".env")
		c, err := New(os.LookupEnv)
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// New builds a Config from defaults, then the YAML file named by CONFIG_FILE
// (if any), then the variables visible through lookup.
func New(lookup func(string) (string, bool)) (*Config, error) {
	c := Defaults()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := c.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.mergeEnv(lookup); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Defaults() *Config {
	return &Config{
		Env:            "development",
		LogLevel:       "info",
		StorageBackend: "file",
		KVFile:         "data/sleeptracker.json",
		SQLitePath:     "data/sleeptracker.db",
		MongoDatabase:  "sleeptracker",
		HTTPAddr:       ":8088",
		TimeZone:       "Local",
		Notifier:       "log",
		ReminderTitle:  "Time to log your sleepiness",
		ReminderBody:   "Open Sleep Tracker and record how you feel right now.",
		OpenAIModel:    "gpt-4o-mini",
		AdviceTTL:      time.Hour,
	}
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &c.Env)
	str("LOG_LEVEL", &c.LogLevel)
	str("STORAGE_BACKEND", &c.StorageBackend)
	str("KV_FILE", &c.KVFile)
	str("SQLITE_PATH", &c.SQLitePath)
	str("POSTGRES_DSN", &c.PostgresDSN)
	str("MONGO_URL", &c.MongoURL)
	str("MONGO_DATABASE", &c.MongoDatabase)
	str("HTTP_ADDR", &c.HTTPAddr)
	str("API_TOKEN", &c.APIToken)
	str("API_TOKEN_HASH", &c.APITokenHash)
	str("TIMEZONE", &c.TimeZone)
	str("NOTIFIER", &c.Notifier)
	str("TELEGRAM_TOKEN", &c.TelegramToken)
	str("REMINDER_TITLE", &c.ReminderTitle)
	str("REMINDER_BODY", &c.ReminderBody)
	str("OPENAI_TOKEN", &c.OpenAIToken)
	str("OPENAI_MODEL", &c.OpenAIModel)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	if v, ok := lookup("TELEGRAM_CHAT_ID"); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v, ok := lookup("ADVICE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: ADVICE_TTL: %w", err)
		}
		c.AdviceTTL = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.StorageBackend {
	case "memory", "none":
	case "file":
		if c.KVFile == "" {
			return errors.New("file storage requires KV_FILE to be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("sqlite storage requires SQLITE_PATH to be set")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "mongo":
		if c.MongoURL == "" || c.MongoDatabase == "" {
			return errors.New("MONGO_URL and MONGO_DATABASE are required when STORAGE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.Notifier {
	case "log":
	case "telegram":
		if c.TelegramToken == "" || c.TelegramChatID == 0 {
			return errors.New("NOTIFIER=telegram requires TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER %q", c.Notifier)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Env == "production" && c.APIToken == "" && c.APITokenHash == "" {
		return errors.New("production requires API_TOKEN or API_TOKEN_HASH")
	}
	return nil
}

// Location resolves TimeZone; calendar days for streaks are counted in it.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c *Config) AuthEnabled() bool {
	return c.APIToken != "" || c.APITokenHash != ""
}

func loadDotEnv(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, line := range strings.FieldsFunc(string(raw), func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		os.Setenv(strings.TrimSpace(key), strings.Trim(strings.TrimSpace(value), `"'`))
	}
	return nil
}
