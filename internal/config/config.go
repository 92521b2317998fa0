package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Backend string

const (
	BackendTOML   Backend = "toml"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".desk"
	envPrefix  = "DESK"

	BackendKey   = "state.backend"
	PathKey      = "state.path"
	SlotDirKey   = "state.dir"
	SQLiteKey    = "state.sqlite"
	SlotKey      = "state.slot"
	DebounceKey  = "autosave.debounce"
	IdleAfterKey = "autosave.idle_after"
	LogLevelKey  = "log.level"
	LogFormatKey = "log.format"

	DefaultSlot      = "window-store"
	DefaultDebounce  = time.Second
	DefaultIdleAfter = 2 * time.Second
)

type Config struct {
	Dir        string
	Backend    Backend
	StatePath  string
	SlotDir    string
	SQLitePath string
	Slot       string
	Debounce   time.Duration
	IdleAfter  time.Duration
	LogLevel   string
	LogFormat  string
}

// Load reads ~/.desk/config.toml (optional) and DESK_* environment overrides.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(BackendKey, string(BackendTOML))
	cfg.SetDefault(PathKey, filepath.Join(dir, "desktop.toml"))
	cfg.SetDefault(SlotDirKey, filepath.Join(dir, "slots"))
	cfg.SetDefault(SQLiteKey, filepath.Join(dir, "desk.sqlite"))
	cfg.SetDefault(SlotKey, DefaultSlot)
	cfg.SetDefault(DebounceKey, DefaultDebounce)
	cfg.SetDefault(IdleAfterKey, DefaultIdleAfter)
	cfg.SetDefault(LogLevelKey, "warn")
	cfg.SetDefault(LogFormatKey, "console")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	loaded := Config{
		Dir:        dir,
		Backend:    Backend(strings.ToLower(strings.TrimSpace(cfg.GetString(BackendKey)))),
		StatePath:  cfg.GetString(PathKey),
		SlotDir:    cfg.GetString(SlotDirKey),
		SQLitePath: cfg.GetString(SQLiteKey),
		Slot:       strings.TrimSpace(cfg.GetString(SlotKey)),
		Debounce:   cfg.GetDuration(DebounceKey),
		IdleAfter:  cfg.GetDuration(IdleAfterKey),
		LogLevel:   cfg.GetString(LogLevelKey),
		LogFormat:  cfg.GetString(LogFormatKey),
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}

	for _, path := range []*string{&loaded.StatePath, &loaded.SlotDir, &loaded.SQLitePath} {
		normalized, err := normalizePath(*path)
		if err != nil {
			return Config{}, err
		}
		*path = normalized
	}

	return loaded, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendTOML, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unsupported state backend %q (want toml, file or sqlite)", c.Backend)
	}
	if c.Slot == "" {
		return errors.New("state slot is empty")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("autosave debounce must be positive, got %s", c.Debounce)
	}
	if c.IdleAfter <= 0 {
		return fmt.Errorf("autosave idle_after must be positive, got %s", c.IdleAfter)
	}

	return nil
}

func normalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("state path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}
