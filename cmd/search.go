package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/pkg/search"
)

var (
	searchLocale string
	searchLimit  int
	searchSort   string
	searchExact  bool

	docsLocale string
	docsOutput string
)

var searchCmd = &cobra.Command{
	Use:   "search <index> <query>",
	Short: "Search the apps of an index",
	Long:  `Score package names, titles and summaries of an index against a query.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _ := parseFormat(outputFormat)

		idx, err := buildIndex(cmd.Context(), args[0], desiredLocale(searchLocale))
		if err != nil {
			return err
		}

		results, err := search.Search(search.BuildDocuments(idx.Apps), args[1], search.Options{
			Limit: searchLimit,
			Sort:  searchSort,
			Exact: searchExact,
		})
		if err != nil {
			return err
		}
		if results == nil {
			results = []search.Result{}
		}
		return writeData(cmd.OutOrStdout(), results, f)
	},
}

var searchDocsCmd = &cobra.Command{
	Use:   "search-docs <index>",
	Short: "Write search documents for an indexer",
	Long: `Write one {id, packageName, icon, name, summary} document per app, in
index order, for consumption by a full-text indexer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _ := parseFormat(outputFormat)

		idx, err := buildIndex(cmd.Context(), args[0], desiredLocale(docsLocale))
		if err != nil {
			return err
		}
		docs := search.BuildDocuments(idx.Apps)

		out := cmd.OutOrStdout()
		if docsOutput != "" {
			file, err := os.Create(docsOutput)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}
		if err := writeData(out, docs, f); err != nil {
			return err
		}
		if docsOutput != "" {
			logger.Info("Wrote %d documents to %s", len(docs), docsOutput)
		}
		return report("search-docs", idx)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(searchDocsCmd)

	searchCmd.Flags().StringVarP(&searchLocale, "locale", "l", "", "desired locale (default from config)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results (0 = unlimited)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "sort by relevance, name or package")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "exact matches only")

	searchDocsCmd.Flags().StringVarP(&docsLocale, "locale", "l", "", "desired locale (default from config)")
	searchDocsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "write to this file instead of stdout")
}
