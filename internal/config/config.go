package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// Config holds all configuration for the application
type Config struct {
	Controller ControllerConfig `mapstructure:"controller"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ControllerConfig holds the tuning of the turn driver
type ControllerConfig struct {
	Targeting  TargetingConfig  `mapstructure:"targeting"`
	Air        AirConfig        `mapstructure:"air"`
	Production ProductionConfig `mapstructure:"production"`
}

// TargetingConfig holds ring search and resource scoring settings
type TargetingConfig struct {
	AttackCeiling          int `mapstructure:"attack_ceiling"`
	FallbackCeiling        int `mapstructure:"fallback_ceiling"`
	ResourceWindow         int `mapstructure:"resource_window"`
	ResourceFallbackWindow int `mapstructure:"resource_fallback_window"`
	ResourceDecay          int `mapstructure:"resource_decay"`
	ArtilleryRadius        int `mapstructure:"artillery_radius"`
}

// AirConfig holds flying piece settings
type AirConfig struct {
	MaxTurnsInAir int `mapstructure:"max_turns_in_air"`
}

// ProductionConfig holds the build cost table and production schedule
type ProductionConfig struct {
	Costs        map[string]int `mapstructure:"costs"`
	DefaultType  string         `mapstructure:"default_type"`
	Schedule     []ScheduleRule `mapstructure:"schedule"`
	CollectChunk int            `mapstructure:"collect_chunk"`
}

// ScheduleRule selects Type when the When expression holds. Rules are tried
// in order; the first match wins.
type ScheduleRule struct {
	Type string `mapstructure:"type"`
	When string `mapstructure:"when"`
}

// PieceCosts returns the cost table keyed by piece type
func (p ProductionConfig) PieceCosts() map[core.PieceType]int {
	out := make(map[core.PieceType]int, len(p.Costs))
	for name, cost := range p.Costs {
		out[core.PieceType(strings.ToLower(name))] = cost
	}
	return out
}

// SimulationConfig holds settings of the built-in simulated world
type SimulationConfig struct {
	Width         int      `mapstructure:"width"`
	Height        int      `mapstructure:"height"`
	Seed          int64    `mapstructure:"seed"`
	Turns         int      `mapstructure:"turns"`
	Countries     []string `mapstructure:"countries"`
	StartRegion   int      `mapstructure:"start_region"`
	StartBuilders int      `mapstructure:"start_builders"`
	MoneyGrowth   int      `mapstructure:"money_growth"`
	MaxTileMoney  int      `mapstructure:"max_tile_money"`
	AttackRange   int      `mapstructure:"attack_range"`
}

// AuditConfig selects where command transitions are recorded
type AuditConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Targeting defaults
	v.SetDefault("controller.targeting.attack_ceiling", 50)
	v.SetDefault("controller.targeting.fallback_ceiling", 100)
	v.SetDefault("controller.targeting.resource_window", 5)
	v.SetDefault("controller.targeting.resource_fallback_window", 15)
	v.SetDefault("controller.targeting.resource_decay", 3)
	v.SetDefault("controller.targeting.artillery_radius", 2)

	v.SetDefault("controller.air.max_turns_in_air", 4)

	// Production defaults
	v.SetDefault("controller.production.costs", map[string]int{
		"tank":       20,
		"airplane":   30,
		"artillery":  25,
		"helicopter": 30,
		"antitank":   15,
		"irondome":   35,
		"bunker":     10,
		"spy":        10,
		"tower":      15,
		"satellite":  40,
		"builder":    20,
	})
	v.SetDefault("controller.production.default_type", "tank")
	v.SetDefault("controller.production.schedule", []map[string]string{
		{"type": "builder", "when": "Builders < 2"},
		{"type": "artillery", "when": "Counter % 4 == 3"},
		{"type": "airplane", "when": "Counter % 6 == 5"},
	})
	v.SetDefault("controller.production.collect_chunk", 0)

	// Simulation defaults
	v.SetDefault("simulation.width", 24)
	v.SetDefault("simulation.height", 16)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.turns", 100)
	v.SetDefault("simulation.countries", []string{"blue", "red"})
	v.SetDefault("simulation.start_region", 2)
	v.SetDefault("simulation.start_builders", 2)
	v.SetDefault("simulation.money_growth", 1)
	v.SetDefault("simulation.max_tile_money", 12)
	v.SetDefault("simulation.attack_range", 2)

	v.SetDefault("audit.type", "none")
	v.SetDefault("audit.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tactical-commander")
	}

	// Set environment variable prefix
	v.SetEnvPrefix("TCMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// A specific file that does not exist falls back to defaults
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Unmarshal into config struct
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
		// Initialize with defaults if not already initialized
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

// LoadEnvironmentConfig loads environment-specific config overlay
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

	// Re-unmarshal with merged config
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	_ = v.Unmarshal(cfg)
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

// WatchConfig enables hot-reloading of config file. A reloaded config that
// fails validation is reported to onChange and the previous values are kept.
func WatchConfig(onChange func(err error)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			*cfg = *next
		}
		if onChange != nil {
			onChange(err)
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	t := c.Controller.Targeting
	if t.AttackCeiling < 1 {
		return fmt.Errorf("controller.targeting.attack_ceiling must be at least 1")
	}
	if t.FallbackCeiling < t.AttackCeiling {
		return fmt.Errorf("controller.targeting.fallback_ceiling must not be below attack_ceiling")
	}
	if t.ResourceWindow < 0 || t.ResourceFallbackWindow < t.ResourceWindow {
		return fmt.Errorf("controller.targeting resource windows must satisfy 0 <= resource_window <= resource_fallback_window")
	}
	if t.ResourceDecay < 0 {
		return fmt.Errorf("controller.targeting.resource_decay must be non-negative")
	}
	if t.ArtilleryRadius < 0 {
		return fmt.Errorf("controller.targeting.artillery_radius must be non-negative")
	}
	if c.Controller.Air.MaxTurnsInAir < 1 {
		return fmt.Errorf("controller.air.max_turns_in_air must be at least 1")
	}

	if err := validateProduction(c.Controller.Production); err != nil {
		return err
	}

	s := c.Simulation
	if s.Width < 2 || s.Height < 2 {
		return fmt.Errorf("simulation board must be at least 2x2")
	}
	if s.Turns < 1 {
		return fmt.Errorf("simulation.turns must be positive")
	}
	if len(s.Countries) == 0 {
		return fmt.Errorf("simulation.countries must name at least one country")
	}
	seen := make(map[string]bool, len(s.Countries))
	for _, name := range s.Countries {
		if name == "" || seen[name] {
			return fmt.Errorf("simulation.countries must be unique non-empty names")
		}
		seen[name] = true
	}
	if s.StartRegion < 0 || s.StartBuilders < 0 || s.MoneyGrowth < 0 {
		return fmt.Errorf("simulation start_region, start_builders and money_growth must be non-negative")
	}
	if s.MaxTileMoney <= 0 {
		return fmt.Errorf("simulation.max_tile_money must be positive")
	}
	if s.AttackRange < 1 {
		return fmt.Errorf("simulation.attack_range must be at least 1")
	}
	// artillery planned beyond the world's range would be rejected every turn
	if t.ArtilleryRadius > s.AttackRange {
		return fmt.Errorf("controller.targeting.artillery_radius must not exceed simulation.attack_range")
	}

	switch c.Audit.Type {
	case "none":
	case "sqlite", "file":
		if c.Audit.Path == "" {
			return fmt.Errorf("audit.path is required for audit.type %q", c.Audit.Type)
		}
	default:
		return fmt.Errorf("audit.type must be one of none, sqlite, file")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

func validateProduction(p ProductionConfig) error {
	costs := p.PieceCosts()
	for typ, cost := range costs {
		if !typ.Valid() {
			return fmt.Errorf("controller.production.costs: unknown piece type %q", typ)
		}
		if cost <= 0 {
			return fmt.Errorf("controller.production.costs.%s must be positive", typ)
		}
	}
	if _, ok := costs[core.PieceType(p.DefaultType)]; !ok {
		return fmt.Errorf("controller.production.default_type %q has no cost", p.DefaultType)
	}
	for i, rule := range p.Schedule {
		if _, ok := costs[core.PieceType(rule.Type)]; !ok {
			return fmt.Errorf("controller.production.schedule[%d]: type %q has no cost", i, rule.Type)
		}
		if strings.TrimSpace(rule.When) == "" {
			return fmt.Errorf("controller.production.schedule[%d]: empty condition", i)
		}
	}
	if p.CollectChunk < 0 {
		return fmt.Errorf("controller.production.collect_chunk must be non-negative")
	}
	return nil
}
