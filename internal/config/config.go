package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/vending"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Machine  MachineConfig   `mapstructure:"machine"`
	Products []ProductConfig `mapstructure:"products"`
	Restock  []RestockConfig `mapstructure:"restock"`
	Logger   LoggerConfig    `mapstructure:"logger"`
}

// MachineConfig holds the coin setup and sale rules of one machine
type MachineConfig struct {
	ID             string         `mapstructure:"id"`
	Denominations  []int          `mapstructure:"denominations"`
	Float          map[string]int `mapstructure:"float"` // face value -> count
	SellPolicy     string         `mapstructure:"sell_policy"`
	ChangeStrategy string         `mapstructure:"change_strategy"`
}

// ProductConfig declares one slot of the stock table
type ProductConfig struct {
	Name     string `mapstructure:"name"`
	Price    int    `mapstructure:"price"`
	Capacity int    `mapstructure:"capacity"`
}

// RestockConfig is one restock entry applied at startup.
// A list is used instead of a map because viper lowercases map keys.
type RestockConfig struct {
	Product  string `mapstructure:"product"`
	Quantity int    `mapstructure:"quantity"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"sell-policy":     "machine.sell_policy",
	"change-strategy": "machine.change_strategy",
	"log-level":       "logger.level",
	"log-format":      "logger.format",
}

// RegisterFlags adds the flags that override configuration values
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("sell-policy", "", "sell policy: keep_last_unit or sell_last_unit")
	fs.String("change-strategy", "", "change strategy: greedy or minimal")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: json or console")
}

// Load loads configuration from a .env file, the config file, environment
// variables and flags, in increasing order of precedence. fs may be nil.
func Load(configPath string, fs *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VENDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	// Override with flags that were set explicitly
	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Machine defaults
	v.SetDefault("machine.id", "vm-1")
	v.SetDefault("machine.denominations", coin.DefaultDenominations.Faces())
	v.SetDefault("machine.sell_policy", string(vending.PolicyKeepLastUnit))
	v.SetDefault("machine.change_strategy", string(coin.StrategyGreedy))

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds the short environment names operators use
func bindEnvVars(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("machine.id", "VENDING_MACHINE_ID"),
		v.BindEnv("machine.sell_policy", "VENDING_SELL_POLICY"),
		v.BindEnv("machine.change_strategy", "VENDING_CHANGE_STRATEGY"),
		v.BindEnv("logger.level", "LOG_LEVEL"),
	)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		errs = append(errs, v.BindPFlag(key, f))
	}
	return errors.Join(errs...)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	denoms, err := c.Denominations()
	if err != nil {
		return fmt.Errorf("machine.denominations: %w", err)
	}
	if _, err := c.FloatLedger(denoms); err != nil {
		return fmt.Errorf("machine.float: %w", err)
	}

	if !vending.SellPolicy(c.Machine.SellPolicy).IsValid() {
		return fmt.Errorf("machine.sell_policy %q is not supported", c.Machine.SellPolicy)
	}
	if !coin.Strategy(c.Machine.ChangeStrategy).IsValid() {
		return fmt.Errorf("machine.change_strategy %q is not supported", c.Machine.ChangeStrategy)
	}

	if len(c.Products) == 0 {
		return fmt.Errorf("products: at least one product is required")
	}
	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if p.Name == "" {
			return fmt.Errorf("products[%d].name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("products[%d]: duplicate product %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.Price <= 0 {
			return fmt.Errorf("products[%d].price must be positive", i)
		}
		if p.Capacity <= 0 {
			return fmt.Errorf("products[%d].capacity must be positive", i)
		}
	}

	// Unknown products and overflow in restock entries are reported as
	// warnings when applied, so only the quantity is checked here.
	for i, r := range c.Restock {
		if r.Quantity < 0 {
			return fmt.Errorf("restock[%d].quantity must not be negative", i)
		}
	}

	return nil
}
