package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/five82/kidplan/internal/audit"
	"github.com/five82/kidplan/internal/config"
	"github.com/five82/kidplan/internal/logging"
	"github.com/five82/kidplan/internal/planner"
	"github.com/five82/kidplan/internal/prefs"
	"github.com/five82/kidplan/internal/sharelink"
	"github.com/five82/kidplan/internal/storage"
	"github.com/five82/kidplan/internal/ui"
)

// Options configures how a session is opened.
type Options struct {
	ConfigPath string
	PrefsPath  string
	// OpenLink is the link the program was started with. Empty means the
	// configured share base URL, which never carries a fragment.
	OpenLink string
}

// Session holds the collaborators shared by the TUI and the CLI commands.
type Session struct {
	Config  config.Config
	Planner *planner.Planner
	Journal *audit.Journal

	store  storage.Store
	logOut io.Closer
}

// Open loads the config, points logging at the log file, opens the storage
// backend and builds the planner.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	logOut, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		_ = logOut.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	link := strings.TrimSpace(opts.OpenLink)
	if link == "" {
		link = cfg.ShareBaseURL
	}
	loc, err := sharelink.Parse(link)
	if err != nil {
		_ = store.Close()
		_ = logOut.Close()
		return nil, err
	}

	journal := audit.NewJournal(cfg.JournalPath(), cfg.User)
	p, err := planner.New(planner.Options{
		KV:        store,
		Location:  loc,
		Journal:   journal,
		WarnAfter: cfg.StorageWarnAfter,
	})
	if err != nil {
		_ = store.Close()
		_ = logOut.Close()
		return nil, err
	}

	logging.Info("session opened", "storage", cfg.Storage, "data_dir", cfg.DataDir)
	return &Session{
		Config:  cfg,
		Planner: p,
		Journal: journal,
		store:   store,
		logOut:  logOut,
	}, nil
}

// Close releases the storage backend and restores log output.
func (s *Session) Close() error {
	return errors.Join(s.store.Close(), s.logOut.Close())
}

// Run opens a session and runs the terminal calendar until the user quits.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		// Prefs are cosmetic.
		logging.Warn("load prefs failed, using defaults", "error", err)
		p = prefs.Default()
	}

	incoming, hasIncoming := s.Planner.DetectShareToken()

	return ui.Run(ui.Options{
		Context:     ctx,
		Planner:     s.Planner,
		Config:      s.Config,
		ThemeName:   p.Theme,
		ViewName:    p.View,
		PrefsPath:   opts.PrefsPath,
		Incoming:    incoming,
		HasIncoming: hasIncoming,
	})
}
