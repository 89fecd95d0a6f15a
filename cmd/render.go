package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codepane/internal/config"
	"github.com/ziadkadry99/codepane/internal/fetch"
	"github.com/ziadkadry99/codepane/internal/highlight"
	"github.com/ziadkadry99/codepane/internal/theme"
	"github.com/ziadkadry99/codepane/internal/view"
	"github.com/ziadkadry99/codepane/internal/widget"
)

var (
	renderFiles string
	renderTheme string
	renderDark  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <output.html>",
	Short: "Render a widget to a standalone HTML file",
	Long: `Fetches every configured file up front (a static page has no
lazy tabs to defer to) and writes a self-contained embed page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		mode := theme.Mode(cfg.Theme)
		if renderTheme != "" {
			if mode, err = theme.ParseMode(renderTheme); err != nil {
				return err
			}
		}

		sink := &widget.CollectingSink{}
		orc := widget.New(widget.Options{
			Fetcher:         fetch.NewHTTP(cfg.FetchTimeout(), fetch.NormalizePatterns(cfg.Allowed)),
			Engine:          highlight.NewSingleton(),
			Theme:           theme.NewResolver(mode, func() bool { return renderDark }, cfg.LightStyle, cfg.DarkStyle),
			Sink:            sink,
			BaseURL:         cfg.SourceBase,
			HighlightSource: cfg.HighlightSource,
		})

		if err := orc.Render(context.Background(), renderFiles); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}

		var bar *progressbar.ProgressBar
		if orc.FileCount() > 1 {
			bar = progressbar.Default(int64(orc.FileCount()), "fetching files")
		}
		err = orc.SettleAll(context.Background(), func(done, total int) {
			if bar != nil {
				_ = bar.Set(done)
			}
		})
		if err != nil {
			return fmt.Errorf("fetching: %w", err)
		}

		terminal, ok := sink.Last()
		if !ok {
			return fmt.Errorf("no view produced")
		}

		dark := theme.Resolve(mode, renderDark) == theme.ModeDark
		page, err := view.RenderPage(terminal, "codepane", dark, "")
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[0], []byte(page), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		fmt.Printf("Wrote %s (%d file(s))\n", args[0], orc.FileCount())
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderFiles, "files", "", "comma-separated file references (required)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "theme mode: light, dark or auto (default from config)")
	renderCmd.Flags().BoolVar(&renderDark, "dark", false, "treat the system preference as dark in auto mode")
	_ = renderCmd.MarkFlagRequired("files")
	rootCmd.AddCommand(renderCmd)
}
