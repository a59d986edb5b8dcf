package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Server      ServerConfig      `mapstructure:"server"`
	UI          UIConfig          `mapstructure:"ui"`
	Colors      ColorsConfig      `mapstructure:"colors"`
	Replay      ReplayConfig      `mapstructure:"replay"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds board and rule settings
type GameConfig struct {
	// Difficulty is a preset name or "custom"
	Difficulty string            `mapstructure:"difficulty"`
	Custom     CustomBoardConfig `mapstructure:"custom"`
	Rules      RulesConfig       `mapstructure:"rules"`
	// Seed fixes mine placement when non-zero
	Seed int64 `mapstructure:"seed"`
}

// CustomBoardConfig is used when Difficulty is "custom"
type CustomBoardConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	Mines  int `mapstructure:"mines"`
}

// RulesConfig holds the rule variants
type RulesConfig struct {
	// MaxFlagsPolicy is "mines" (one flag per mine) or "double"
	MaxFlagsPolicy       string `mapstructure:"max_flags_policy"`
	LossOnFlagExhaustion bool   `mapstructure:"loss_on_flag_exhaustion"`
	// WinRule is "flags" or "reveal"
	WinRule string `mapstructure:"win_rule"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GameServer GameServerConfig `mapstructure:"game_server"`
	GRPCServer GRPCServerConfig `mapstructure:"grpc_server"`
}

// GameServerConfig holds console game configuration
type GameServerConfig struct {
	LogLevel  string     `mapstructure:"log_level"`
	LogFormat string     `mapstructure:"log_format"`
	Demo      DemoConfig `mapstructure:"demo"`
}

// DemoConfig holds demo mode configuration
type DemoConfig struct {
	MaxMoves int `mapstructure:"max_moves"`
	DelayMs  int `mapstructure:"delay_ms"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	MaxGames              int    `mapstructure:"max_games"`
	TickIntervalMs        int    `mapstructure:"tick_interval_ms"`
	FinishedGameTTL       int    `mapstructure:"finished_game_ttl"`
	AbandonedGameTimeout  int    `mapstructure:"abandoned_game_timeout"`
	CleanupInterval       int    `mapstructure:"cleanup_interval"`
	StreamBufferSize      int    `mapstructure:"stream_buffer_size"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// UIConfig holds desktop client configuration
type UIConfig struct {
	Window WindowConfig `mapstructure:"window"`
	Game   UIGameConfig `mapstructure:"game"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Title string `mapstructure:"title"`
	Scale int    `mapstructure:"scale"`
}

// UIGameConfig holds board drawing settings
type UIGameConfig struct {
	TileSize        int `mapstructure:"tile_size"`
	StatusBarHeight int `mapstructure:"status_bar_height"`
	TicksPerSecond  int `mapstructure:"ticks_per_second"`
}

// ColorsConfig holds all color configurations
type ColorsConfig struct {
	Scores [][3]int         `mapstructure:"scores"`
	Cells  CellColorsConfig `mapstructure:"cells"`
	UI     UIColorsConfig   `mapstructure:"ui"`
}

// CellColorsConfig holds cell background colors
type CellColorsConfig struct {
	Covered   [3]int `mapstructure:"covered"`
	Revealed  [3]int `mapstructure:"revealed"`
	Detonated [3]int `mapstructure:"detonated"`
	Flag      [3]int `mapstructure:"flag"`
}

// UIColorsConfig holds UI color settings
type UIColorsConfig struct {
	Background [3]int `mapstructure:"background"`
	GridLines  [3]int `mapstructure:"grid_lines"`
	StatusText [3]int `mapstructure:"status_text"`
}

// ReplayConfig holds replay recording settings
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Store     string `mapstructure:"store"`
	Directory string `mapstructure:"directory"`
	MaxKept   int    `mapstructure:"max_kept"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ShowMines      bool `mapstructure:"show_mines"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.difficulty", "beginner")
	v.SetDefault("game.custom.width", 10)
	v.SetDefault("game.custom.height", 8)
	v.SetDefault("game.custom.mines", 20)
	v.SetDefault("game.rules.max_flags_policy", MaxFlagsMines)
	v.SetDefault("game.rules.loss_on_flag_exhaustion", false)
	v.SetDefault("game.rules.win_rule", "flags")
	v.SetDefault("game.seed", 0)

	// Server defaults
	v.SetDefault("server.game_server.log_level", "info")
	v.SetDefault("server.game_server.log_format", "console")
	v.SetDefault("server.game_server.demo.max_moves", 200)
	v.SetDefault("server.game_server.demo.delay_ms", 0)

	// gRPC server defaults
	v.SetDefault("server.grpc_server.host", "0.0.0.0")
	v.SetDefault("server.grpc_server.port", 50051)
	v.SetDefault("server.grpc_server.log_level", "info")
	v.SetDefault("server.grpc_server.max_games", 100)
	v.SetDefault("server.grpc_server.tick_interval_ms", 1000)
	v.SetDefault("server.grpc_server.finished_game_ttl", 600)
	v.SetDefault("server.grpc_server.abandoned_game_timeout", 1800)
	v.SetDefault("server.grpc_server.cleanup_interval", 60)
	v.SetDefault("server.grpc_server.stream_buffer_size", 32)
	v.SetDefault("server.grpc_server.enable_reflection", true)
	v.SetDefault("server.grpc_server.graceful_shutdown_delay", 5)

	// UI defaults
	v.SetDefault("ui.window.title", "Minesweeper")
	v.SetDefault("ui.window.scale", 1)
	v.SetDefault("ui.game.tile_size", 24)
	v.SetDefault("ui.game.status_bar_height", 32)
	v.SetDefault("ui.game.ticks_per_second", 60)

	// Color defaults
	v.SetDefault("colors.scores", [][]int{
		{0, 0, 255}, {0, 128, 0}, {255, 0, 0}, {0, 0, 128},
		{128, 0, 0}, {0, 128, 128}, {0, 0, 0}, {128, 128, 128},
	})
	v.SetDefault("colors.cells.covered", []int{160, 160, 160})
	v.SetDefault("colors.cells.revealed", []int{192, 192, 192})
	v.SetDefault("colors.cells.detonated", []int{255, 0, 0})
	v.SetDefault("colors.cells.flag", []int{220, 30, 30})
	v.SetDefault("colors.ui.background", []int{0, 0, 0})
	v.SetDefault("colors.ui.grid_lines", []int{128, 128, 128})
	v.SetDefault("colors.ui.status_text", []int{255, 255, 255})

	// Replay defaults
	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.store", "file")
	v.SetDefault("replay.directory", "replays")
	v.SetDefault("replay.max_kept", 32)

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_mines", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/minesweeper")
	}

	// MSW_GAME_DIFFICULTY overrides game.difficulty and so on
	v.SetEnvPrefix("MSW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the default
		// search path only ConfigFileNotFoundError is ignored.
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Changes that fail
// validation are ignored and the previous values stay in effect.
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if err := c.Game.validate(); err != nil {
		return err
	}

	// Validate server configuration
	g := c.Server.GRPCServer
	if g.Port <= 0 || g.Port > 65535 {
		return fmt.Errorf("server.grpc_server.port must be between 1 and 65535")
	}
	if g.MaxGames <= 0 {
		return fmt.Errorf("server.grpc_server.max_games must be positive")
	}
	if g.TickIntervalMs <= 0 {
		return fmt.Errorf("server.grpc_server.tick_interval_ms must be positive")
	}
	if g.FinishedGameTTL < 0 || g.AbandonedGameTimeout < 0 {
		return fmt.Errorf("server.grpc_server game timeouts must be non-negative")
	}
	if g.CleanupInterval <= 0 {
		return fmt.Errorf("server.grpc_server.cleanup_interval must be positive")
	}
	if g.StreamBufferSize <= 0 {
		return fmt.Errorf("server.grpc_server.stream_buffer_size must be positive")
	}
	if g.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc_server.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.GameServer.Demo.MaxMoves <= 0 {
		return fmt.Errorf("server.game_server.demo.max_moves must be positive")
	}

	// Validate UI configuration
	if c.UI.Window.Scale <= 0 {
		return fmt.Errorf("ui.window.scale must be positive")
	}
	if c.UI.Game.TileSize <= 0 {
		return fmt.Errorf("ui.game.tile_size must be positive")
	}
	if c.UI.Game.StatusBarHeight < 0 {
		return fmt.Errorf("ui.game.status_bar_height must be non-negative")
	}
	if c.UI.Game.TicksPerSecond <= 0 {
		return fmt.Errorf("ui.game.ticks_per_second must be positive")
	}

	// Validate color values
	validateRGB := func(rgb [3]int, name string) error {
		for i, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s[%d] must be between 0 and 255", name, i)
			}
		}
		return nil
	}

	if len(c.Colors.Scores) != 8 {
		return fmt.Errorf("colors.scores must list 8 colors, got %d", len(c.Colors.Scores))
	}
	for i, rgb := range c.Colors.Scores {
		if err := validateRGB(rgb, fmt.Sprintf("colors.scores[%d]", i)); err != nil {
			return err
		}
	}
	named := map[string][3]int{
		"colors.cells.covered":   c.Colors.Cells.Covered,
		"colors.cells.revealed":  c.Colors.Cells.Revealed,
		"colors.cells.detonated": c.Colors.Cells.Detonated,
		"colors.cells.flag":      c.Colors.Cells.Flag,
		"colors.ui.background":   c.Colors.UI.Background,
		"colors.ui.grid_lines":   c.Colors.UI.GridLines,
		"colors.ui.status_text":  c.Colors.UI.StatusText,
	}
	for name, rgb := range named {
		if err := validateRGB(rgb, name); err != nil {
			return err
		}
	}

	// Validate replay settings
	switch c.Replay.Store {
	case "none", "memory", "file", "badger":
	default:
		return fmt.Errorf("replay.store must be one of none, memory, file, badger")
	}
	if c.Replay.MaxKept < 0 {
		return fmt.Errorf("replay.max_kept must be non-negative")
	}

	return nil
}
