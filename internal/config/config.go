package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server and CLI read from the environment
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	App      AppConfig
	Roster   RosterConfig
}

// DatabaseConfig selects postgres when URL is set, sqlite at DataPath otherwise
type DatabaseConfig struct {
	URL      string
	DataPath string
}

// AuthConfig holds admin and API key secrets
type AuthConfig struct {
	JWTSecret     string
	MasterSecret  string
	AdminUsername string
	AdminPassword string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     string
	LogLevel string
	GinMode  string
}

// RosterConfig tunes the roster engine
type RosterConfig struct {
	StandardMonthlyHours float64
	AutoNightRest        bool
	ShiftCodesFile       string
}

// LoadEnvFiles loads the first .env found in the working directory or its parents
func LoadEnvFiles() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	LoadEnvFiles()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			DataPath: getEnv("DATA_PATH", "roster.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			MasterSecret:  os.Getenv("API_MASTER_SECRET"),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		App: AppConfig{
			Port:     getEnv("PORT", "8000"),
			LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
			GinMode:  os.Getenv("GIN_MODE"),
		},
		Roster: RosterConfig{
			ShiftCodesFile: os.Getenv("SHIFT_CODES_FILE"),
		},
	}

	hours, err := strconv.ParseFloat(getEnv("STANDARD_MONTHLY_HOURS", "209"), 64)
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("invalid STANDARD_MONTHLY_HOURS %q", os.Getenv("STANDARD_MONTHLY_HOURS"))
	}
	cfg.Roster.StandardMonthlyHours = hours

	rest, err := strconv.ParseBool(getEnv("AUTO_NIGHT_REST", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_NIGHT_REST: %w", err)
	}
	cfg.Roster.AutoNightRest = rest

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
