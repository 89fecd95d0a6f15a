package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codepane",
	Short: "Embeddable syntax-highlighted viewer for remote source files",
	Long: `Codepane fetches remote source files and renders them as
syntax-highlighted, embeddable HTML with a tabbed or single-file view.
Run an embed server with "codepane serve" or produce a one-shot page
with "codepane render".`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".codepane.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
