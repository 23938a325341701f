// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the entire suite configuration. Values come from an optional
// YAML file, GMKT_-prefixed environment variables, and a .env file loaded at
// startup. The legacy environment names used by CI (HEADLESS, TEST_ID,
// TEST_PASSWORD) are honored as overrides.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Site     SiteConfig     `mapstructure:"site" yaml:"site"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Pacing   PacingConfig   `mapstructure:"pacing" yaml:"pacing"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Account  AccountConfig  `mapstructure:"-" yaml:"-"`
}

// LoggerConfig configures the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SiteConfig identifies the storefront under test. The patterns are
// Playwright URL globs matched after navigation actions.
type SiteConfig struct {
	BaseURL         string `mapstructure:"base_url" yaml:"base_url"`
	HomeURL         string `mapstructure:"home_url" yaml:"home_url"`
	SearchPattern   string `mapstructure:"search_pattern" yaml:"search_pattern"`
	ItemPattern     string `mapstructure:"item_pattern" yaml:"item_pattern"`
	CartPattern     string `mapstructure:"cart_pattern" yaml:"cart_pattern"`
	CheckoutPattern string `mapstructure:"checkout_pattern" yaml:"checkout_pattern"`
}

// BrowserConfig controls the launched Chromium instance and the contexts
// created from it.
type BrowserConfig struct {
	Headless       bool     `mapstructure:"headless" yaml:"headless"`
	Args           []string `mapstructure:"args" yaml:"args"`
	ViewportWidth  int      `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
	Locale         string   `mapstructure:"locale" yaml:"locale"`
	Timezone       string   `mapstructure:"timezone" yaml:"timezone"`
	UserAgent      string   `mapstructure:"user_agent" yaml:"user_agent"`
}

// PacingConfig controls the humanized delay policy. Disabling it removes all
// randomized pauses; only do that against trusted local fixtures, since the
// live site fingerprints machine-speed interaction.
type PacingConfig struct {
	Enabled        bool `mapstructure:"enabled" yaml:"enabled"`
	TypingDelayMin int  `mapstructure:"typing_delay_min_ms" yaml:"typing_delay_min_ms"`
	TypingDelayMax int  `mapstructure:"typing_delay_max_ms" yaml:"typing_delay_max_ms"`
}

// TimeoutsConfig carries the timeout families used by the page layer.
type TimeoutsConfig struct {
	Element    time.Duration `mapstructure:"element" yaml:"element"`
	Navigation time.Duration `mapstructure:"navigation" yaml:"navigation"`
	Page       time.Duration `mapstructure:"page" yaml:"page"`
	NewTab     time.Duration `mapstructure:"new_tab" yaml:"new_tab"`
	Login      time.Duration `mapstructure:"login" yaml:"login"`
}

// ReportConfig locates run artifacts.
type ReportConfig struct {
	Dir            string `mapstructure:"dir" yaml:"dir"`
	ScreenshotsDir string `mapstructure:"screenshots_dir" yaml:"screenshots_dir"`
}

// AccountConfig is the test account sourced from the environment. It is never
// read from a config file and never logged.
type AccountConfig struct {
	ID       string
	Password string
}

// Configured reports whether both credential halves are present.
func (a AccountConfig) Configured() bool {
	return a.ID != "" && a.Password != ""
}

// NewDefault returns the configuration used when no file or environment
// overrides are present.
func NewDefault() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "gmkt-e2e",
			MaxSize:     20,
			MaxBackups:  3,
			MaxAge:      7,
		},
		Site: SiteConfig{
			BaseURL:         "https://gmarket.co.kr",
			HomeURL:         "https://www.gmarket.co.kr/",
			SearchPattern:   "**/search**",
			ItemPattern:     "**/Item**",
			CartPattern:     "**/cart/**",
			CheckoutPattern: "**/checkout**",
		},
		Browser: BrowserConfig{
			Headless:       false,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			Locale:         "ko-KR",
			Timezone:       "Asia/Seoul",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Pacing: PacingConfig{
			Enabled:        true,
			TypingDelayMin: 50,
			TypingDelayMax: 150,
		},
		Timeouts: TimeoutsConfig{
			Element:    10 * time.Second,
			Navigation: 15 * time.Second,
			Page:       30 * time.Second,
			NewTab:     5 * time.Second,
			Login:      10 * time.Second,
		},
		Report: ReportConfig{
			Dir:            "reports",
			ScreenshotsDir: "reports/screenshots",
		},
	}
}

// Load reads configuration from the optional file path, the environment and
// .env, layered over the defaults.
func Load(cfgFile string) (*Config, error) {
	// Credentials commonly live in a local .env; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GMKT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyLegacyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := NewDefault()

	v.SetDefault("logger.level", def.Logger.Level)
	v.SetDefault("logger.format", def.Logger.Format)
	v.SetDefault("logger.service_name", def.Logger.ServiceName)
	v.SetDefault("logger.max_size", def.Logger.MaxSize)
	v.SetDefault("logger.max_backups", def.Logger.MaxBackups)
	v.SetDefault("logger.max_age", def.Logger.MaxAge)

	v.SetDefault("site.base_url", def.Site.BaseURL)
	v.SetDefault("site.home_url", def.Site.HomeURL)
	v.SetDefault("site.search_pattern", def.Site.SearchPattern)
	v.SetDefault("site.item_pattern", def.Site.ItemPattern)
	v.SetDefault("site.cart_pattern", def.Site.CartPattern)
	v.SetDefault("site.checkout_pattern", def.Site.CheckoutPattern)

	v.SetDefault("browser.headless", def.Browser.Headless)
	v.SetDefault("browser.viewport_width", def.Browser.ViewportWidth)
	v.SetDefault("browser.viewport_height", def.Browser.ViewportHeight)
	v.SetDefault("browser.locale", def.Browser.Locale)
	v.SetDefault("browser.timezone", def.Browser.Timezone)
	v.SetDefault("browser.user_agent", def.Browser.UserAgent)

	v.SetDefault("pacing.enabled", def.Pacing.Enabled)
	v.SetDefault("pacing.typing_delay_min_ms", def.Pacing.TypingDelayMin)
	v.SetDefault("pacing.typing_delay_max_ms", def.Pacing.TypingDelayMax)

	v.SetDefault("timeouts.element", def.Timeouts.Element)
	v.SetDefault("timeouts.navigation", def.Timeouts.Navigation)
	v.SetDefault("timeouts.page", def.Timeouts.Page)
	v.SetDefault("timeouts.new_tab", def.Timeouts.NewTab)
	v.SetDefault("timeouts.login", def.Timeouts.Login)

	v.SetDefault("report.dir", def.Report.Dir)
	v.SetDefault("report.screenshots_dir", def.Report.ScreenshotsDir)
}

// applyLegacyEnv maps the environment names the original CI setup exports
// onto the typed config.
func applyLegacyEnv(cfg *Config) {
	if h := os.Getenv("HEADLESS"); h != "" {
		cfg.Browser.Headless = strings.EqualFold(h, "true") || h == "1"
	}
	cfg.Account.ID = os.Getenv("TEST_ID")
	cfg.Account.Password = os.Getenv("TEST_PASSWORD")
}

// Validate rejects configurations the suite cannot run with.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must not be empty")
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport dimensions must be positive")
	}
	if c.Pacing.TypingDelayMin < 0 || c.Pacing.TypingDelayMax < c.Pacing.TypingDelayMin {
		return fmt.Errorf("pacing typing delay range is invalid: [%d, %d]",
			c.Pacing.TypingDelayMin, c.Pacing.TypingDelayMax)
	}
	for name, d := range map[string]time.Duration{
		"timeouts.element":    c.Timeouts.Element,
		"timeouts.navigation": c.Timeouts.Navigation,
		"timeouts.page":       c.Timeouts.Page,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration", name)
		}
	}
	return nil
}
