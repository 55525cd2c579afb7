package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/internal/config"
	"github.com/huanfeng/fdroidmeta/internal/i18n"
	"github.com/huanfeng/fdroidmeta/internal/version"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
)

var (
	cfgFile      string
	langFlag     string
	verbose      bool
	debug        bool
	noColor      bool
	outputFormat string

	cfg    *models.Config
	logger utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fdroidmeta",
	Short: "fdroidmeta - normalize F-Droid index metadata",
	Long: `fdroidmeta turns the app entries of an F-Droid index-v1 document into
localized, sanitized records ready for rendering.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", i18n.T("msg.error"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./fdroidmeta.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "UI language (en, zh)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, yaml)")
}

// setup loads the configuration and initializes the global logger
func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	lc, err := config.NewLoggerConfig(cfg)
	if err != nil {
		return err
	}
	switch {
	case debug:
		lc.Level = utils.LogLevelDebug
	case verbose && lc.Level > utils.LogLevelInfo:
		lc.Level = utils.LogLevelInfo
	}
	lc.EnableColor = !noColor

	if err := utils.InitGlobalLogger(lc); err != nil {
		return err
	}
	logger = utils.GetGlobalLogger()

	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}
	logger.Debug("Using site %s, default locale %s", cfg.Site.BaseURL, cfg.Locale.Default)
	return nil
}

// langFromArgs finds --lang before cobra parses flags, so help text is
// localized too.
func langFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case strings.HasPrefix(arg, "--lang="):
			return strings.TrimPrefix(arg, "--lang=")
		case arg == "--lang" && i+1 < len(args):
			return args[i+1]
		}
	}
	return ""
}
