package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/internal/config"
	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

var localesLocale string

type localesResult struct {
	PackageName   string   `json:"package_name" yaml:"package_name"`
	Locale        string   `json:"locale" yaml:"locale"`
	RankedLocales []string `json:"ranked_locales" yaml:"ranked_locales"`
	IsLocalized   *string  `json:"is_localized" yaml:"is_localized"`
}

var localesCmd = &cobra.Command{
	Use:   "locales <index> <package>",
	Short: "Show how a package's locales rank",
	Long: `Print the locales a package is localized in, best match first, and the
locale reported as is_localized.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _ := parseFormat(outputFormat)

		raw, err := loadIndex(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		entry, ok := raw.Entry(args[1])
		if !ok {
			return errors.NewNotFoundError(errors.CodePackageNotFound,
				fmt.Sprintf("package %s is not in the index", args[1])).
				WithContext("package", args[1])
		}

		assembler, err := config.NewAssembler(cfg, logger)
		if err != nil {
			return err
		}
		app, err := assembler.Assemble(entry, desiredLocale(localesLocale))
		if err != nil {
			return err
		}

		result := localesResult{
			PackageName:   app.PackageName(),
			Locale:        app.Locale(),
			RankedLocales: app.RankedLocales(),
		}
		if result.RankedLocales == nil {
			result.RankedLocales = []string{}
		}
		if v, ok := app.Get(fdroid.FieldIsLocalized); ok {
			if s, ok := value.Text(v); ok {
				result.IsLocalized = &s
			}
		}
		return writeData(cmd.OutOrStdout(), result, f)
	},
}

func init() {
	rootCmd.AddCommand(localesCmd)
	localesCmd.Flags().StringVarP(&localesLocale, "locale", "l", "", "desired locale (default from config)")
}
