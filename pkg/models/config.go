package models

// Config represents the application configuration
type Config struct {
	Site      SiteConfig      `mapstructure:"site" json:"site" yaml:"site"`
	Sanitizer SanitizerConfig `mapstructure:"sanitizer" json:"sanitizer" yaml:"sanitizer"`
	Locale    LocaleConfig    `mapstructure:"locale" json:"locale" yaml:"locale"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging" yaml:"logging"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache" yaml:"cache"`
}

// SiteConfig describes the site the records are rendered for
type SiteConfig struct {
	BaseURL    string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`          // e.g. https://f-droid.org
	LinkScheme string `mapstructure:"link_scheme" json:"link_scheme" yaml:"link_scheme"` // e.g. fdroid.app
}

// SanitizerConfig contains the scrub-mode safe-list
type SanitizerConfig struct {
	AllowedElements     []string `mapstructure:"allowed_elements" json:"allowed_elements" yaml:"allowed_elements"`
	DropContentElements []string `mapstructure:"drop_content_elements" json:"drop_content_elements" yaml:"drop_content_elements"`
}

// LocaleConfig contains locale fallback settings
type LocaleConfig struct {
	Default string                         `mapstructure:"default" json:"default" yaml:"default"`
	Aliases map[string]map[string][]string `mapstructure:"aliases" json:"aliases" yaml:"aliases"` // lang -> desired region -> regions
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "console" or "json"
}

// CacheConfig contains index cache settings
type CacheConfig struct {
	Size int `mapstructure:"size" json:"size" yaml:"size"`
}
