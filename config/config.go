package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"herocraft/database"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string  `mapstructure:"discord_token"`
	GuildID      string  `mapstructure:"guild_id"`
	AdminIDs     []int64 `mapstructure:"admin_ids"` // Discord IDs allowed to start/stop the wheel

	// Database configuration
	DatabaseURL  string `mapstructure:"database_url"`
	DatabaseName string `mapstructure:"database_name"`

	// NATS configuration, empty disables event publishing
	NATSServers string `mapstructure:"nats_servers"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `mapstructure:"otel_enabled"`
	OTelExporterType         string `mapstructure:"otel_exporter_type"` // console, otlp or none
	OTelOTLPEndpoint         string `mapstructure:"otel_otlp_endpoint"`
	OTelServiceName          string `mapstructure:"otel_service_name"`
	OTelExportIntervalMillis int    `mapstructure:"otel_export_interval_millis"`

	// Status API configuration, 0 disables it
	StatusAPIPort int `mapstructure:"status_api_port"`

	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"environment"` // "development", "production" or "test"

	Wheel      WheelConfig      `mapstructure:"wheel"`
	Lottery    LotteryConfig    `mapstructure:"lottery"`
	RideTheBus RideTheBusConfig `mapstructure:"ridethebus"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
}

// WheelConfig holds the continuous wheel game settings
type WheelConfig struct {
	ChannelID       string               `mapstructure:"channel_id"`
	CountdownPeriod time.Duration        `mapstructure:"countdown_period"`
	SpinPeriod      time.Duration        `mapstructure:"spin_period"`
	AutoStart       bool                 `mapstructure:"auto_start"`
	BetPresets      []int64              `mapstructure:"bet_presets"`
	Outcomes        []WheelOutcomeConfig `mapstructure:"outcomes"`
}

// WheelOutcomeConfig is one segment group of the wheel
type WheelOutcomeConfig struct {
	Name       string `mapstructure:"name"`
	Multiplier int64  `mapstructure:"multiplier"`
	Weight     int    `mapstructure:"weight"`
}

// LotteryConfig holds the daily drawing settings
type LotteryConfig struct {
	ChannelID            string        `mapstructure:"channel_id"`
	TicketPrice          int64         `mapstructure:"ticket_price"`
	PotMultiplier        int64         `mapstructure:"pot_multiplier"`
	MaxTicketsPerAccount int           `mapstructure:"max_tickets_per_account"`
	DrawingHour          int           `mapstructure:"drawing_hour"`   // UTC
	DrawingMinute        int           `mapstructure:"drawing_minute"` // UTC
	CheckInterval        time.Duration `mapstructure:"check_interval"`
}

// RideTheBusConfig holds the card game settings
type RideTheBusConfig struct {
	MinStake int64         `mapstructure:"min_stake"`
	MaxStake int64         `mapstructure:"max_stake"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RewardsConfig holds the activity reward settings
type RewardsConfig struct {
	MessageReward   int64                `mapstructure:"message_reward"`
	MessageCooldown time.Duration        `mapstructure:"message_cooldown"`
	VoiceInterval   time.Duration        `mapstructure:"voice_interval"`
	VoiceChannels   []VoiceChannelConfig `mapstructure:"voice_channels"`
}

// VoiceChannelConfig describes a voice channel that pays rewards
type VoiceChannelConfig struct {
	ChannelID        string `mapstructure:"channel_id"`
	CoinsPerInterval int64  `mapstructure:"coins_per_interval"`
	MaxDailyMinutes  int    `mapstructure:"max_daily_minutes"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load(".")
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsAdmin reports whether the Discord user may run admin commands
func (c *Config) IsAdmin(discordID int64) bool {
	for _, id := range c.AdminIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// Load reads an optional config.yaml from configPath and applies environment overrides.
// Nested keys map to env vars with underscores, e.g. WHEEL_COUNTDOWN_PERIOD.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Environment != "test" {
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}

	if c.Lottery.DrawingHour < 0 || c.Lottery.DrawingHour > 23 {
		return fmt.Errorf("lottery drawing hour must be 0-23, got %d", c.Lottery.DrawingHour)
	}
	if c.Lottery.DrawingMinute < 0 || c.Lottery.DrawingMinute > 59 {
		return fmt.Errorf("lottery drawing minute must be 0-59, got %d", c.Lottery.DrawingMinute)
	}
	if c.RideTheBus.MinStake <= 0 || c.RideTheBus.MaxStake < c.RideTheBus.MinStake {
		return fmt.Errorf("invalid ride the bus stake range %d-%d", c.RideTheBus.MinStake, c.RideTheBus.MaxStake)
	}
	if c.Lottery.TicketPrice <= 0 || c.Lottery.PotMultiplier <= 0 {
		return fmt.Errorf("lottery ticket price and pot multiplier must be positive")
	}
	if c.Lottery.MaxTicketsPerAccount <= 0 {
		return fmt.Errorf("lottery max tickets per account must be positive, got %d", c.Lottery.MaxTicketsPerAccount)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"wheel countdown period", c.Wheel.CountdownPeriod},
		{"wheel spin period", c.Wheel.SpinPeriod},
		{"lottery check interval", c.Lottery.CheckInterval},
		{"ride the bus timeout", c.RideTheBus.Timeout},
		{"rewards voice interval", c.Rewards.VoiceInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if c.Rewards.MessageCooldown < 0 {
		return fmt.Errorf("rewards message cooldown must not be negative, got %s", c.Rewards.MessageCooldown)
	}

	if len(c.Wheel.Outcomes) == 0 {
		return fmt.Errorf("wheel needs at least one outcome")
	}
	for _, o := range c.Wheel.Outcomes {
		if o.Weight <= 0 || o.Multiplier <= 0 {
			return fmt.Errorf("wheel outcome %q needs positive weight and multiplier", o.Name)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord_token", "")
	v.SetDefault("guild_id", "")
	v.SetDefault("admin_ids", []int64{})
	v.SetDefault("database_url", "")
	v.SetDefault("database_name", "")
	v.SetDefault("nats_servers", "")

	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter_type", "console")
	v.SetDefault("otel_otlp_endpoint", "otel-collector:4317")
	v.SetDefault("otel_service_name", "herocraft")
	v.SetDefault("otel_export_interval_millis", 30000)

	v.SetDefault("status_api_port", 8899)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "")

	v.SetDefault("wheel.channel_id", "")
	v.SetDefault("wheel.countdown_period", "30s")
	v.SetDefault("wheel.spin_period", "10s")
	v.SetDefault("wheel.auto_start", true)
	v.SetDefault("wheel.bet_presets", []int64{5, 25, 100, 500, 1000})
	v.SetDefault("wheel.outcomes", defaultWheelOutcomes())

	v.SetDefault("lottery.channel_id", "")
	v.SetDefault("lottery.ticket_price", 100)
	v.SetDefault("lottery.pot_multiplier", 2)
	v.SetDefault("lottery.max_tickets_per_account", 5)
	v.SetDefault("lottery.drawing_hour", 20)
	v.SetDefault("lottery.drawing_minute", 0)
	v.SetDefault("lottery.check_interval", "1m")

	v.SetDefault("ridethebus.min_stake", 10)
	v.SetDefault("ridethebus.max_stake", 500)
	v.SetDefault("ridethebus.timeout", "120s")

	v.SetDefault("rewards.message_reward", 10)
	v.SetDefault("rewards.message_cooldown", "15m")
	v.SetDefault("rewards.voice_interval", "5m")
	v.SetDefault("rewards.voice_channels", []map[string]any{})
}

func defaultWheelOutcomes() []map[string]any {
	return []map[string]any{
		{"name": "yellow", "multiplier": 1, "weight": 12},
		{"name": "green", "multiplier": 3, "weight": 6},
		{"name": "blue", "multiplier": 5, "weight": 4},
		{"name": "pink", "multiplier": 10, "weight": 2},
		{"name": "red", "multiplier": 20, "weight": 1},
	}
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a config with the production game defaults, suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		AdminIDs:                 []int64{999999},
		OTelExporterType:         "none",
		OTelServiceName:          "herocraft-test",
		OTelExportIntervalMillis: 30000,
		LogLevel:                 "debug",
		Wheel: WheelConfig{
			CountdownPeriod: 30 * time.Second,
			SpinPeriod:      10 * time.Second,
			BetPresets:      []int64{5, 25, 100, 500, 1000},
			Outcomes: []WheelOutcomeConfig{
				{Name: "yellow", Multiplier: 1, Weight: 12},
				{Name: "green", Multiplier: 3, Weight: 6},
				{Name: "blue", Multiplier: 5, Weight: 4},
				{Name: "pink", Multiplier: 10, Weight: 2},
				{Name: "red", Multiplier: 20, Weight: 1},
			},
		},
		Lottery: LotteryConfig{
			TicketPrice:          100,
			PotMultiplier:        2,
			MaxTicketsPerAccount: 5,
			DrawingHour:          20,
			DrawingMinute:        0,
			CheckInterval:        time.Minute,
		},
		RideTheBus: RideTheBusConfig{
			MinStake: 10,
			MaxStake: 500,
			Timeout:  120 * time.Second,
		},
		Rewards: RewardsConfig{
			MessageReward:   10,
			MessageCooldown: 15 * time.Minute,
			VoiceInterval:   5 * time.Minute,
		},
	}
}
