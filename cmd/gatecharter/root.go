package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/config"
	"github.com/jask/gatecharter/internal/database"
	"github.com/jask/gatecharter/internal/logging"
	"github.com/jask/gatecharter/internal/placement"
	"github.com/jask/gatecharter/internal/prefs"
	"github.com/jask/gatecharter/internal/service"
	"github.com/jask/gatecharter/internal/session"
	"github.com/jask/gatecharter/internal/tui"
)

type rootFlags struct {
	catalog string
	preset  string
	file    string
	open    string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:           "gatecharter",
		Short:         "Chart a route through a world's gates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "gate catalog file (overrides catalog.path)")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "settings preset for the new session (overrides session.preset)")
	cmd.Flags().StringVar(&flags.file, "file", "", "load a session document file on start")
	cmd.Flags().StringVar(&flags.open, "open", "", "open a saved session on start")

	cmd.AddCommand(newCheckCmd(&flags), newSessionsCmd())
	return cmd
}

// env is everything a command needs after configuration is loaded.
type env struct {
	cfg config.Config
	log *zap.Logger
}

func loadEnv(catalogOverride string) (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	if catalogOverride != "" {
		cfg.Catalog.Path = catalogOverride
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return env{}, err
	}
	return env{cfg: cfg, log: log}, nil
}

// loadCatalog parses the catalog, logging rejected rows. It fails only when
// nothing usable was read.
func (e env) loadCatalog() (*catalog.Catalog, error) {
	c, err := catalog.Load(e.cfg.Catalog.Path, catalog.WithGroupThreshold(e.cfg.Catalog.GroupThreshold))
	if c == nil {
		return nil, err
	}
	for _, rowErr := range multierr.Errors(err) {
		e.log.Warn("catalog row rejected", zap.Error(rowErr))
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("catalog %s has no usable gates", e.cfg.Catalog.Path)
	}
	return c, nil
}

func (e env) openLibrary() (*service.SessionLibrary, func(), error) {
	db, err := database.OpenMigrated(e.cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return service.NewSessionLibrary(db, e.log), func() { db.Close() }, nil
}

func (e env) layout() placement.Layout {
	return placement.Layout{
		UnitDistance: e.cfg.Layout.UnitDistance,
		ArcDegrees:   e.cfg.Layout.ArcDegrees,
		GroupScale:   e.cfg.Layout.GroupScale,
	}
}

func runTUI(ctx context.Context, flags rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := loadEnv(flags.catalog)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	c, err := e.loadCatalog()
	if err != nil {
		return err
	}

	presets, err := prefs.Open(e.cfg.Prefs.PresetsPath)
	if err != nil {
		return err
	}
	preset := e.cfg.Session.Preset
	if flags.preset != "" {
		preset = flags.preset
	}
	disabled, err := presets.Resolve(preset)
	if err != nil {
		return err
	}

	lib, closeDB, err := e.openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	sess := session.New(c, session.Options{Layout: e.layout(), DisabledTypes: disabled, Logger: e.log})
	switch {
	case flags.file != "":
		if err := sess.LoadFile(flags.file); err != nil {
			e.log.Warn("loading session file", zap.String("path", flags.file), zap.Error(err))
		}
	case flags.open != "":
		if err := lib.Open(ctx, flags.open, sess); err != nil {
			return err
		}
	}
	e.log.Info("starting",
		zap.Int("gates", c.Len()),
		zap.Int("groups", len(c.Groups())),
		zap.String("preset", preset))

	app := tui.New(ctx, tui.Deps{
		Session:    sess,
		Library:    lib,
		Presets:    presets,
		Config:     e.cfg,
		SaveConfig: config.Save,
		Log:        e.log,
	})
	_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
