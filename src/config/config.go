package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"region-shot/src/action"
	"region-shot/src/selection"
)

const (
	// ConfigPathEnvVar names an alternative .env file.
	ConfigPathEnvVar = "REGIONSHOT_CONFIG"
	// AppName is used for per-user state and cache directories.
	AppName = "regionshot"

	DefaultHotkey           = "Ctrl+Shift+X"
	DefaultUploadTimeoutSec = 45
	AllMonitors             = -1
)

// DefaultUploadServices are tried together; the first to answer wins.
var DefaultUploadServices = []string{"litterbox", "catbox"}

type LoadOptions struct {
	EnvPathOverride       string
	DefaultActionOverride string
	SaveDirOverride       string
	MonitorOverride       *int
	FileLoggingOverride   *bool
}

type Config struct {
	PrecisionDivisor  float64
	GridCellSize      float64
	EdgeThreshold     float64
	MoveStep          float64
	DefaultAction     action.Kind
	SaveDir           string
	UploadServices    []string
	UploadTimeoutSec  int
	EnableFileLogging bool
	LogFile           string
	Hotkey            string
	PrecisionModifier selection.Modifiers
	SuppressModifier  selection.Modifiers
	Monitor           int
	// EnvPath is the .env file that was read, empty when none.
	EnvPath string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) LoadOptions overrides
	// 2) process environment
	// 3) .env next to the executable, else the file named by REGIONSHOT_CONFIG
	envPath := strings.TrimSpace(opts.EnvPathOverride)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("CONFIG: failed to read %s: %v", envPath, err)
		}
	}

	cfg := &Config{
		PrecisionDivisor:  getFloat("PRECISION_DIVISOR", selection.DefaultPrecisionDivisor),
		GridCellSize:      getFloat("GRID_CELL_SIZE", 40),
		EdgeThreshold:     getFloat("EDGE_THRESHOLD", selection.DefaultEdgeThreshold),
		MoveStep:          getFloat("MOVE_STEP", selection.DefaultMoveStep),
		DefaultAction:     resolveAction(firstNonEmpty(opts.DefaultActionOverride, os.Getenv("DEFAULT_ACTION"))),
		SaveDir:           firstNonEmpty(opts.SaveDirOverride, os.Getenv("SAVE_DIR"), defaultSaveDir()),
		UploadServices:    splitList(getEnvWithDefault("UPLOAD_SERVICES", strings.Join(DefaultUploadServices, ","))),
		UploadTimeoutSec:  getInt("UPLOAD_TIMEOUT_SEC", DefaultUploadTimeoutSec),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		LogFile:           getEnvWithDefault("LOG_FILE", filepath.Join(xdg.StateHome, AppName, AppName+".log")),
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		PrecisionModifier: resolveModifier(os.Getenv("PRECISION_MODIFIER"), selection.ModShift),
		SuppressModifier:  resolveModifier(os.Getenv("SUPPRESS_MODIFIER"), selection.ModCtrl),
		Monitor:           getMonitor(),
		EnvPath:           envPath,
	}
	if opts.MonitorOverride != nil {
		cfg.Monitor = *opts.MonitorOverride
	}
	if opts.FileLoggingOverride != nil {
		cfg.EnableFileLogging = *opts.FileLoggingOverride
	}
	if len(cfg.UploadServices) == 0 {
		cfg.UploadServices = append([]string(nil), DefaultUploadServices...)
	}
	return cfg, nil
}

// SelectionConfig maps the tunables onto the state machine.
func (c *Config) SelectionConfig() selection.Config {
	return selection.Config{
		PrecisionDivisor:  c.PrecisionDivisor,
		EdgeThreshold:     c.EdgeThreshold,
		GridCellSize:      c.GridCellSize,
		MoveStep:          c.MoveStep,
		DefaultAction:     c.DefaultAction,
		PrecisionModifier: c.PrecisionModifier,
		SuppressModifier:  c.SuppressModifier,
	}
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func defaultSaveDir() string {
	if dir := xdg.UserDirs.Pictures; dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func resolveAction(value string) action.Kind {
	if value == "" {
		return action.Copy
	}
	kind, err := action.ParseKind(value)
	if err != nil {
		log.Printf("CONFIG: %v, using copy", err)
		return action.Copy
	}
	return kind
}

func resolveModifier(value string, fallback selection.Modifiers) selection.Modifiers {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	mod, err := selection.ParseModifier(value)
	if err != nil {
		log.Printf("CONFIG: %v, using %s", err, fallback)
		return fallback
	}
	return mod
}

func getMonitor() int {
	if v := strings.TrimSpace(os.Getenv("MONITOR")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= AllMonitors {
			return n
		}
	}
	return AllMonitors
}

func getFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(item)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
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
