package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pixel-measure/src/units"
)

const (
	// EnvPathVar points at an alternate .env file when none sits next to
	// the executable.
	EnvPathVar = "PIXEL_MEASURE"

	DefaultHotkey            = "Ctrl+Alt+M"
	DefaultCaptureTimeoutSec = 10
	DefaultConfirmDelayMs    = 200
)

type Config struct {
	Settings          units.Settings
	Hotkey            string
	EnableFileLogging bool
	// CaptureTools overrides the provider priority order when non-empty.
	CaptureTools      []string
	CaptureTimeoutSec int
	ConfirmDelayMs    int
}

func Load() (*Config, error) {
	// Configuration sources in priority order:
	// 1) .env in the executable directory
	// 2) file named by the PIXEL_MEASURE env var
	// 3) process environment
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	var tools []string
	if toolsStr := os.Getenv("CAPTURE_TOOLS"); toolsStr != "" {
		for _, tool := range strings.Split(toolsStr, ",") {
			if trimmed := strings.TrimSpace(tool); trimmed != "" {
				tools = append(tools, trimmed)
			}
		}
	}

	cfg := &Config{
		Settings: units.Settings{
			DPI:            getEnvFloat("DPI", units.DefaultDPI),
			BaseFontSizePx: getEnvFloat("BASE_FONT_SIZE_PX", units.DefaultBaseFontSizePx),
		},
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		CaptureTools:      tools,
		CaptureTimeoutSec: getEnvInt("CAPTURE_TIMEOUT_SEC", DefaultCaptureTimeoutSec),
		ConfirmDelayMs:    getEnvInt("CONFIRM_DELAY_MS", DefaultConfirmDelayMs),
	}

	// Non-positive reference values never reach the converter.
	if !cfg.Settings.Valid() {
		cfg.Settings = units.DefaultSettings()
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
