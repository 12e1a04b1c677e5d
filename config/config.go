package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Secrets have no defaults and must come from config.json, a .env file or the environment.
type AppConfig struct {
	AppPort string
	GinMode string
	// Debug exposes unexpected error details in failure responses.
	Debug bool

	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis backs the category cache; when disabled an in-process store is used.
	RedisEnabled     bool
	RedisHost        string
	RedisPort        int
	RedisDB          int
	RedisPassword    string
	CategoryCacheTTL time.Duration

	RateLimitPerMinute int
	AllowedOrigins     []string
	// StaffUsernames are promoted to staff accounts on boot.
	StaffUsernames []string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load reads configuration once. Precedence: config/config.json -> defaults -> .env / environment.
func Load() (AppConfig, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg, nil
	}
	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		return AppConfig{}, err
	}
	cfg = c
	loaded = true
	return cfg, nil
}

// LoadFrom builds a configuration from the given JSON file (optional) and the environment.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	applyDefaults(&c)

	// .env is optional; real environment variables always win over it.
	_ = godotenv.Load()
	if err := applyEnvOverrides(&c); err != nil {
		return AppConfig{}, err
	}
	// the port default depends on the driver, which the environment may have changed
	if c.DBPort == "" {
		c.DBPort = defaultDBPort(c.DBDriver)
	}

	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

// Get returns the cached configuration. Load must have succeeded before.
func Get() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	return cfg
}

// Validate reports configuration that cannot work.
func (c AppConfig) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// loadJSONConfig reads grouped sections from path. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var raw struct {
		App struct {
			AppPort            string   `json:"AppPort"`
			GinMode            string   `json:"GinMode"`
			Debug              bool     `json:"Debug"`
			JWTSecret          string   `json:"JWTSecret"`
			JWTAccessTTL       string   `json:"JWTAccessTTL"`
			JWTRefreshTTL      string   `json:"JWTRefreshTTL"`
			RateLimitPerMinute int      `json:"RateLimitPerMinute"`
			AllowedOrigins     []string `json:"AllowedOrigins"`
			StaffUsernames     []string `json:"StaffUsernames"`
		} `json:"app"`
		Database struct {
			Driver      string `json:"Driver"`
			DatabaseURI string `json:"DatabaseURI"`
			DBHost      string `json:"DBHost"`
			DBPort      string `json:"DBPort"`
			DBUser      string `json:"DBUser"`
			DBPassword  string `json:"DBPassword"`
			DBName      string `json:"DBName"`
		} `json:"database"`
		Redis struct {
			Enabled          bool   `json:"Enabled"`
			RedisHost        string `json:"RedisHost"`
			RedisPort        int    `json:"RedisPort"`
			RedisDB          int    `json:"RedisDB"`
			RedisPassword    string `json:"RedisPassword"`
			CategoryCacheTTL string `json:"CategoryCacheTTL"`
		} `json:"redis"`
		Log struct {
			Level      string `json:"Level"`
			Path       string `json:"Path"`
			MaxSizeMB  int    `json:"MaxSizeMB"`
			MaxBackups int    `json:"MaxBackups"`
			MaxAgeDays int    `json:"MaxAgeDays"`
			Compress   bool   `json:"Compress"`
		} `json:"log"`
	}
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	out.AppPort = raw.App.AppPort
	out.GinMode = raw.App.GinMode
	out.Debug = raw.App.Debug
	out.JWTSecret = raw.App.JWTSecret
	out.RateLimitPerMinute = raw.App.RateLimitPerMinute
	out.AllowedOrigins = raw.App.AllowedOrigins
	out.StaffUsernames = raw.App.StaffUsernames
	if out.JWTAccessTTL, err = parseOptionalDuration(raw.App.JWTAccessTTL); err != nil {
		return err
	}
	if out.JWTRefreshTTL, err = parseOptionalDuration(raw.App.JWTRefreshTTL); err != nil {
		return err
	}

	out.DBDriver = raw.Database.Driver
	out.DatabaseURI = raw.Database.DatabaseURI
	out.DBHost = raw.Database.DBHost
	out.DBPort = raw.Database.DBPort
	out.DBUser = raw.Database.DBUser
	out.DBPassword = raw.Database.DBPassword
	out.DBName = raw.Database.DBName

	out.RedisEnabled = raw.Redis.Enabled
	out.RedisHost = raw.Redis.RedisHost
	out.RedisPort = raw.Redis.RedisPort
	out.RedisDB = raw.Redis.RedisDB
	out.RedisPassword = raw.Redis.RedisPassword
	if out.CategoryCacheTTL, err = parseOptionalDuration(raw.Redis.CategoryCacheTTL); err != nil {
		return err
	}

	out.LogLevel = raw.Log.Level
	out.LogPath = raw.Log.Path
	out.LogMaxSizeMB = raw.Log.MaxSizeMB
	out.LogMaxBackups = raw.Log.MaxBackups
	out.LogMaxAgeDays = raw.Log.MaxAgeDays
	out.LogCompress = raw.Log.Compress
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.JWTAccessTTL == 0 {
		c.JWTAccessTTL = 5 * time.Minute
	}
	if c.JWTRefreshTTL == 0 {
		c.JWTRefreshTTL = 24 * time.Hour
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "blog"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CategoryCacheTTL == 0 {
		c.CategoryCacheTTL = time.Hour
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func defaultDBPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	strs := map[string]*string{
		"APP_PORT":       &c.AppPort,
		"GIN_MODE":       &c.GinMode,
		"JWT_SECRET":     &c.JWTSecret,
		"DB_DRIVER":      &c.DBDriver,
		"DATABASE_URI":   &c.DatabaseURI,
		"DB_HOST":        &c.DBHost,
		"DB_PORT":        &c.DBPort,
		"DB_USER":        &c.DBUser,
		"DB_PASSWORD":    &c.DBPassword,
		"DB_NAME":        &c.DBName,
		"REDIS_HOST":     &c.RedisHost,
		"REDIS_PASSWORD": &c.RedisPassword,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_PATH":       &c.LogPath,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_PORT":            &c.RedisPort,
		"REDIS_DB":              &c.RedisDB,
		"RATE_LIMIT_PER_MINUTE": &c.RateLimitPerMinute,
		"LOG_MAX_SIZE_MB":       &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":       &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS":      &c.LogMaxAgeDays,
	}
	for key, dst := range ints {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer value for %s: %w", key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"DEBUG":         &c.Debug,
		"REDIS_ENABLED": &c.RedisEnabled,
		"LOG_COMPRESS":  &c.LogCompress,
	}
	for key, dst := range bools {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean value for %s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"JWT_ACCESS_TTL":     &c.JWTAccessTTL,
		"JWT_REFRESH_TTL":    &c.JWTRefreshTTL,
		"CATEGORY_CACHE_TTL": &c.CategoryCacheTTL,
	}
	for key, dst := range durations {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid duration value for %s: %w", key, err)
			}
			*dst = d
		}
	}

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		c.AllowedOrigins = splitAndTrim(raw)
	}
	if raw := os.Getenv("STAFF_USERNAMES"); raw != "" {
		c.StaffUsernames = splitAndTrim(raw)
	}
	return nil
}

func parseOptionalDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
