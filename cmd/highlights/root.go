package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"highlights/internal/client"
	"highlights/internal/config"
	"highlights/internal/logger"
	"highlights/internal/toolbar"
	"highlights/internal/tui"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfgPath string
	apiURL  string
	asJSON  bool

	cfg *config.AppConfig
	log logger.Logger
	api *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "highlights",
		Short:         "Browse, search and chat with your book highlights",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/highlights/config.yaml if not provided)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides config)")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print raw JSON instead of text")
	root.SetVersionTemplate(fmt.Sprintf("highlights version %s (built %s)\n", Version, BuildTime))

	root.AddCommand(
		newUploadCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newCountCmd(a),
		newClearCmd(a),
		newChatCmd(a),
	)
	return root
}

func (a *app) setup() error {
	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if a.cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(a.cfgPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --api-url: %w", err)
		}
	}

	log, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.api = client.New(client.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout()}, log)
	return nil
}

func (a *app) runTUI(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("main", "starting tui", map[string]interface{}{"api": a.api.BaseURL()})
	ctrl := toolbar.New(ctx, a.api, a.log, toolbar.Options{
		PageSize:    a.cfg.UI.PageSize,
		SearchLimit: a.cfg.UI.SearchLimit,
	})
	m := tui.New(ctrl, a.api.BaseURL())
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
