package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huanfeng/fdroidmeta/internal/i18n"
)

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	// Root command metadata and flags.
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	for name, id := range map[string]string{
		"config":   "flags.config",
		"lang":     "flags.lang",
		"verbose":  "flags.verbose",
		"debug":    "flags.debug",
		"no-color": "flags.noColor",
		"format":   "flags.format",
	} {
		if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}

	// Command descriptions.
	localize(resolveCmd, "cmd.resolve")
	localize(localesCmd, "cmd.locales")
	localize(repoCmd, "cmd.repo")
	localize(repoInfoCmd, "cmd.repoInfo")
	localize(searchCmd, "cmd.search")
	localize(searchDocsCmd, "cmd.searchDocs")
	localize(configInitCmd, "cmd.configInit")
	localize(versionCmd, "cmd.version")
	configCmd.Short = i18n.T("cmd.config.short")

	for _, c := range []*cobra.Command{resolveCmd, localesCmd, searchCmd, searchDocsCmd} {
		if flag := c.Flags().Lookup("locale"); flag != nil {
			flag.Usage = i18n.T("flags.locale")
		}
	}
}

func localize(c *cobra.Command, prefix string) {
	c.Short = i18n.T(prefix + ".short")
	c.Long = i18n.T(prefix + ".long")
}
