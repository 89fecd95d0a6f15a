package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codepane/internal/config"
	"github.com/ziadkadry99/codepane/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the embed server",
	Long: `Starts the HTTP server that renders widgets at /embed, streams
view updates at /ws/render, and reports loader state at /api/introspect.
Changes to the config file are picked up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		srv := server.New(cfg, Version)

		if err := watchConfig(cfgFile, srv); err != nil {
			// A missing config file is fine; live reload just won't apply.
			fmt.Fprintf(os.Stderr, "Warning: config watch disabled: %v\n", err)
		}

		return srv.Start()
	},
}

// watchConfig reloads the server configuration when the config file
// changes. Editors replace files rather than writing in place, so the
// watch covers the parent directory.
func watchConfig(path string, srv *server.Server) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != abs || !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(abs)
				if err != nil {
					log.Printf("codepane: config reload: %v", err)
					continue
				}
				if err := cfg.Validate(); err != nil {
					log.Printf("codepane: config reload: %v", err)
					continue
				}
				srv.Reload(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("codepane: config watch: %v", err)
			}
		}
	}()
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
