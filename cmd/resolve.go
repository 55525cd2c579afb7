package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/internal/i18n"
	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

var (
	resolveLocale    string
	resolveWorkers   int
	resolveProgress  bool
	resolveReportDir string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <index> [package...]",
	Short: "Print normalized app records",
	Long: `Assemble the app records of an index for a locale and print them.
Without package names every app of the index is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _ := parseFormat(outputFormat)
		desired := desiredLocale(resolveLocale)

		opts := []fdroid.BuildOption{fdroid.WithWorkers(resolveWorkers)}
		var bar *utils.ProgressBar
		if resolveProgress {
			raw, err := loadIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			bar = utils.NewProgressBar(os.Stderr, int64(len(raw.Apps)), i18n.T("msg.assembling"))
			opts = append(opts, fdroid.WithProgress(bar.Increment))
		}

		idx, err := buildIndex(cmd.Context(), args[0], desired, opts...)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return err
		}

		records, err := selectRecords(idx, args[1:])
		if err != nil {
			return err
		}

		if err := writeValue(cmd.OutOrStdout(), records, f); err != nil {
			return err
		}
		return report("resolve", idx)
	},
}

// selectRecords returns the named records, or all of them
func selectRecords(idx *fdroid.Index, names []string) (value.List, error) {
	if len(names) == 0 {
		list := make(value.List, len(idx.Apps))
		for i, app := range idx.Apps {
			list[i] = app.Record()
		}
		return list, nil
	}

	list := make(value.List, 0, len(names))
	for _, name := range names {
		app, ok := idx.App(name)
		if !ok {
			return nil, errors.NewNotFoundError(errors.CodePackageNotFound,
				fmt.Sprintf("package %s is not in the index", name)).
				WithContext("package", name)
		}
		list = append(list, app.Record())
	}
	return list, nil
}

// report prints excluded records to stderr and saves them when asked to
func report(command string, idx *fdroid.Index) error {
	r := errors.NewReport(command, idx.Errors(), idx.Stats)
	if r.Empty() {
		return nil
	}
	logger.Warn(i18n.T("msg.excluded", map[string]interface{}{"Count": len(r.Errors)}))
	r.Display(os.Stderr)

	if resolveReportDir == "" {
		return nil
	}
	path, err := r.Save(resolveReportDir)
	if err != nil {
		return err
	}
	logger.Info("Report saved to %s", path)
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveLocale, "locale", "l", "", "desired locale (default from config)")
	resolveCmd.Flags().IntVarP(&resolveWorkers, "workers", "w", 0, "concurrent assemblies (default number of CPUs)")
	resolveCmd.Flags().BoolVar(&resolveProgress, "progress", false, "show a progress bar")
	resolveCmd.Flags().StringVar(&resolveReportDir, "report-dir", "", "save a JSON report of excluded records in this directory")
}
