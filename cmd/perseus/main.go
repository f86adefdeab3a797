package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/perseus/internal/cli"
	"github.com/studiowebux/perseus/internal/clipboard"
	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/session"
	"github.com/studiowebux/perseus/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		// the response was already printed
		if !errors.Is(err, cli.ErrRequestFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "perseus",
	Short: "Perseus - terminal HTTP client",
	Long: `Perseus is a terminal HTTP client with a modal editor.

Requests are organised in projects and folders stored in .perseus/ at the
project root. Run without arguments to start the TUI.

Examples:
  perseus                              # Start interactive TUI
  perseus -e dev                       # Start with the 'dev' environment
  perseus send users/list              # Send a saved request
  perseus send users/get -v id=42      # Override a variable
  perseus tree                         # Print the project tree
  perseus import collection.json       # Merge a Postman collection
  perseus import capture.har           # Import a browser HAR capture`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

var sendCmd = &cobra.Command{
	Use:   "send [path]",
	Short: "Send a saved request and print the response",
	Long: `Send a saved request without the TUI.

The path is "Folder/Request" inside the first project, or a full
"Project/Folder/Request" path. Without a path a picker is shown.
A body piped on stdin replaces the saved body.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the project tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		return cli.PrintTree(cmd.OutOrStdout(), ws.Store)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sends of this project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		hist, err := ws.History()
		if err != nil {
			return err
		}
		if hist == nil {
			return errors.New("history is disabled (history.enabled = false)")
		}
		defer hist.Close()

		if flagHistoryClear {
			if err := hist.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		}
		return cli.PrintHistory(cmd.OutOrStdout(), hist, flagHistoryLimit)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a Postman v2.1 collection or a HAR capture into this project",
	Long: `Merge a Postman v2.1 collection or a HAR capture into this project.

A HAR capture becomes a project named after the file with one folder per
host. Cookies and credentials are dropped unless --headers is given; a
bearer token is replaced by {{token}} and saved to a new environment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		return cli.Import(cmd.OutOrStdout(), ws, args[0], cli.ImportOptions{
			ImportHeaders: flagImportHeaders,
			Filter:        flagImportFilter,
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Create or check the key bindings file",
	Long: `Check ~/.perseus/keybinds.json for conflicts and unknown actions.

Use --init to write the default bindings there first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagKeybindsInit {
			return cli.InitKeybinds(cmd.OutOrStdout(), config.KeybindsFile)
		}
		return cli.CheckKeybinds(cmd.OutOrStdout(), config.KeybindsFile)
	},
}

// Global flags
var (
	flagEnv   string
	flagDebug bool
)

// Flags for send
var (
	flagOutput    string
	flagSave      string
	flagBody      string
	flagFull      bool
	flagExtraVars []string
	flagFilter    string
)

// Flags for history, import and keybinds
var (
	flagImportHeaders bool
	flagImportFilter  string
	flagHistoryLimit  int
	flagHistoryClear  bool
	flagKeybindsInit  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEnv, "env", "e", "", "Environment to use")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	sendCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml/body)")
	sendCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save response to file")
	sendCmd.Flags().StringVarP(&flagBody, "body", "b", "", "Override request body")
	sendCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "Show full output (status, headers, body)")
	sendCmd.Flags().StringArrayVarP(&flagExtraVars, "var", "v", []string{}, "Set variable (key=value), can be repeated")
	sendCmd.Flags().StringVarP(&flagFilter, "filter", "q", "", "JMESPath expression applied to the body")

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete this project's history")

	importCmd.Flags().BoolVar(&flagImportHeaders, "headers", false, "Keep cookies and credential headers from a HAR capture")
	importCmd.Flags().StringVar(&flagImportFilter, "filter", "", "Only import HAR entries whose URL contains this text")

	keybindsCmd.Flags().BoolVar(&flagKeybindsInit, "init", false, "Write the default bindings to keybinds.json")

	// Add subcommands
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(keybindsCmd)
}

// setup initializes global paths and the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	level := "info"
	if global, err := config.LoadFrom(config.GlobalConfigFile, ""); err == nil {
		level = global.Log.Level
	}
	if flagDebug {
		level = "debug"
	}
	logger.Init(logger.ParseLevel(level), config.LogPath)
	logger.Debug("starting", "version", version, "command", cmd.Name())
	return nil
}

func openWorkspace() (*cli.Workspace, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return cli.OpenWorkspace(wd)
}

// runSend sends a saved request in CLI mode
func runSend(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	opts := cli.SendOptions{
		Environment:  flagEnv,
		OutputFormat: flagOutput,
		SavePath:     flagSave,
		BodyOverride: flagBody,
		ShowFull:     flagFull,
		ExtraVars:    flagExtraVars,
		Filter:       flagFilter,
	}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	return cli.Send(context.Background(), ws, opts, cmd.OutOrStdout())
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	sessions := session.NewManager(config.SessionFile)
	if err := sessions.Load(); err != nil {
		logger.Warn("failed to load sessions, starting fresh", "error", err)
	}

	hist, err := ws.History()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		hist = nil
	}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		// the registry falls back to defaults
		logger.Warn("invalid key bindings", "error", err)
	}

	return tui.Run(tui.Options{
		Root:         ws.Root,
		Settings:     ws.Settings,
		Store:        ws.Store,
		Sessions:     sessions,
		History:      hist,
		Keybinds:     registry,
		Clipboard:    clipboard.New(),
		Environments: ws.Environments,
		Environment:  flagEnv,
	})
}
