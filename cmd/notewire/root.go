package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notewire/notewire/internal/cli"
	"github.com/notewire/notewire/internal/config"
	"github.com/notewire/notewire/internal/logging"
)

var (
	configPath string
	serverURL  string
	wsURL      string
	verbose    bool
)

// rootCmd runs the interactive client when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "notewire",
	Short: "Collaborative note-taking client",
	Long: `Notewire is an interactive client for a notewire server.
It keeps a local mirror of your notes, edits them with debounced
autosave, and streams changes to collaborators in real time.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.NewTextLogger(os.Stderr, verbose)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if wsURL != "" {
			cfg.RealtimeURL = wsURL
		}

		app := cli.NewApp(cfg, log)
		app.Run(cmd.Context())
		return nil
	},
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "REST API base URL")
	rootCmd.PersistentFlags().StringVar(&wsURL, "ws", "", "Realtime channel URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
