package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/config"
	"github.com/csheth/lingonotes/internal/logging"
	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/session"
	"github.com/csheth/lingonotes/internal/translator"
	"github.com/csheth/lingonotes/internal/tui"
)

// app carries state shared by every subcommand once config is loaded.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}
	var noAltScreen bool

	root := &cobra.Command{
		Use:   "lingonotes",
		Short: "Take notes in one language, keep them translated in another",
		Long: `LingoNotes keeps an ordered list of short phrases and their translations.

Run without arguments to open the terminal UI, or use the subcommands to
add, list and export notes from scripts.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context(), noAltScreen)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lingonotes/config.yaml)")
	flags.String("store", "", "history location (file or sqlite database)")
	flags.String("backend", "", "history backend: json or sqlite")
	flags.String("provider", "", "translation provider: "+fmt.Sprint(translator.Providers()))
	flags.String("model", "", "provider model override")
	flags.String("endpoint", "", "provider endpoint override")
	flags.String("source", "", "source language (default English)")
	flags.String("target", "", "target language (default German)")
	flags.String("log-file", "", "log file path")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	bindFlag := func(name, key string) {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}
	bindFlag("store", "store.path")
	bindFlag("backend", "store.backend")
	bindFlag("provider", "translate.provider")
	bindFlag("model", "translate.model")
	bindFlag("endpoint", "translate.endpoint")
	bindFlag("source", "editor.source_lang")
	bindFlag("target", "editor.target_lang")
	bindFlag("log-file", "log.file")
	bindFlag("log-level", "log.level")

	root.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRmCmd(a),
		newClearCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newLanguagesCmd(),
	)
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

func (a *app) openStore() (notes.Store, error) {
	store, err := notes.OpenStore(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func (a *app) newTranslator(ctx context.Context) (translator.Client, error) {
	return translator.New(ctx, a.cfg.TranslatorConfig(a.logger))
}

func (a *app) openSession(ctx context.Context, store notes.Store, client translator.Client) *session.Controller {
	return session.Open(ctx, store, client, session.Options{
		Logger:  a.logger.Named("session"),
		Timeout: a.cfg.Translate.Timeout,
	})
}

func (a *app) runTUI(ctx context.Context, noAltScreen bool) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := a.newTranslator(ctx)
	if err != nil {
		a.logger.Warn("translation disabled", zap.Error(err))
		fmt.Println("Translation disabled:", err)
	}
	ctrl := a.openSession(ctx, store, client)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Session:   ctrl,
		Editor:    a.cfg.EditorSettings(),
		ExportDir: a.cfg.Export.Dir,
		Logger:    a.logger.Named("tui"),
		Context:   ctx,
	}), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
