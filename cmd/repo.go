package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
)

// repoCmd represents the repo command
var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Inspect repository metadata",
	Long:  `Commands that read the repository block of an index.`,
}

var repoInfoPlain bool

type repoInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Address     string `json:"address" yaml:"address"`
	IconURL     string `json:"icon_url" yaml:"icon_url"`
	Timestamp   int64  `json:"timestamp" yaml:"timestamp"`
	Date        string `json:"date" yaml:"date"`
	Info        string `json:"info" yaml:"info"`
}

var repoInfoCmd = &cobra.Command{
	Use:   "info <index>",
	Short: "Show repository information",
	Long:  `Print the repository name, description, address, icon and publication date.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := loadIndex(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		repo := fdroid.NewRepo(raw.Repo)

		if repoInfoPlain {
			fmt.Fprintln(cmd.OutOrStdout(), repo.InfoLine())
			return nil
		}

		f, _ := parseFormat(outputFormat)
		return writeData(cmd.OutOrStdout(), repoInfo{
			Name:        repo.Name(),
			Description: repo.Description(),
			Address:     repo.Address(),
			IconURL:     repo.IconURL(),
			Timestamp:   repo.Timestamp(),
			Date:        repo.Date().Format("2006-01-02"),
			Info:        repo.InfoLine(),
		}, f)
	},
}

func init() {
	rootCmd.AddCommand(repoCmd)
	repoCmd.AddCommand(repoInfoCmd)
	repoInfoCmd.Flags().BoolVar(&repoInfoPlain, "plain", false, "print only the info line")
}
