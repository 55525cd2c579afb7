package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
	"github.com/huanfeng/fdroidmeta/pkg/locale"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/sanitize"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
)

// EnvPrefix prefixes environment overrides, e.g. FDROIDMETA_SITE_BASE_URL
const EnvPrefix = "FDROIDMETA"

// Default returns the built-in configuration
func Default() models.Config {
	aliases := make(map[string]map[string][]string, len(locale.DefaultAliases))
	for lang, byRegion := range locale.DefaultAliases {
		regions := make(map[string][]string, len(byRegion))
		for r, list := range byRegion {
			regions[strings.ToLower(r)] = append([]string(nil), list...)
		}
		aliases[lang] = regions
	}

	return models.Config{
		Site: models.SiteConfig{
			BaseURL:    sanitize.DefaultSiteURL,
			LinkScheme: sanitize.DefaultLinkScheme,
		},
		Sanitizer: models.SanitizerConfig{
			AllowedElements:     append([]string(nil), sanitize.DefaultAllowedElements...),
			DropContentElements: append([]string(nil), sanitize.DefaultDropContentElements...),
		},
		Locale: models.LocaleConfig{
			Default: locale.AmericanEnglish,
			Aliases: aliases,
		},
		Logging: models.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: models.CacheConfig{
			Size: 8,
		},
	}
}

// Load loads configuration from file and environment. Without a path it
// looks for fdroidmeta.yaml in the working directory and in
// ~/.config/fdroidmeta; a missing file is not an error.
func Load(configPath string) (*models.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := Default()
	v.SetDefault("site.base_url", defaults.Site.BaseURL)
	v.SetDefault("site.link_scheme", defaults.Site.LinkScheme)
	v.SetDefault("sanitizer.allowed_elements", defaults.Sanitizer.AllowedElements)
	v.SetDefault("sanitizer.drop_content_elements", defaults.Sanitizer.DropContentElements)
	v.SetDefault("locale.default", defaults.Locale.Default)
	v.SetDefault("locale.aliases", defaults.Locale.Aliases)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("cache.size", defaults.Cache.Size)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("fdroidmeta")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fdroidmeta"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeConfigRead,
				"failed to read config file").WithContext("path", configPath)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeConfigDecode,
			"failed to unmarshal config")
	}
	return &cfg, nil
}

// NewAssembler builds a record assembler from cfg
func NewAssembler(cfg *models.Config, logger utils.Logger) (*fdroid.Assembler, error) {
	s, err := sanitize.New(sanitize.Config{
		SiteURL:             cfg.Site.BaseURL,
		LinkScheme:          cfg.Site.LinkScheme,
		AllowedElements:     cfg.Sanitizer.AllowedElements,
		DropContentElements: cfg.Sanitizer.DropContentElements,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeConfigDecode,
			"invalid site configuration").WithContext("base_url", cfg.Site.BaseURL)
	}

	aliases := locale.Aliases(cfg.Locale.Aliases)
	if cfg.Locale.Aliases == nil {
		aliases = locale.DefaultAliases
	}
	return fdroid.NewAssembler(locale.NewResolver(aliases), s, logger), nil
}

// NewLoggerConfig maps the logging section onto a logger configuration
func NewLoggerConfig(cfg *models.Config) (*utils.LoggerConfig, error) {
	level, err := utils.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	format, err := utils.ParseLogFormat(cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("logging.format: %w", err)
	}

	lc := utils.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = format
	return lc, nil
}

// SaveTemplate saves a configuration template
func SaveTemplate(path string) error {
	templateContent := `# fdroidmeta configuration file

site:
  # Site the records are rendered for. Links to this host stay internal,
  # and package links are rewritten against it.
  base_url: "https://f-droid.org"

  # Shorthand scheme rewritten into package links, e.g. fdroid.app:org.example
  link_scheme: "fdroid.app"

sanitizer:
  # Elements kept in descriptions. Everything else loses its tags.
  allowed_elements: [a, b, big, blockquote, br, cite, em, i, small, strike, strong, sub, sup, tt, u, li, ol, ul]

  # Elements removed together with their content
  drop_content_elements: [img, video, audio, svg, picture, canvas, object, embed, iframe, math]

locale:
  # Locale used when none is given on the command line
  default: "en-US"

  # language -> desired region -> regions ranked right after an exact match
  aliases:
    zh:
      hant: [TW, HK, MO]
      hans: [CN, SG]

logging:
  # debug, info, warn or error
  level: "info"

  # console or json
  format: "console"

cache:
  # Number of parsed indexes kept in memory
  size: 8
`

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(templateContent), 0644)
}
