package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/catalog"
	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/journal"
	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/network"
	"github.com/wexinc/devboot/internal/pkgmgr"
	"github.com/wexinc/devboot/internal/profile"
	"github.com/wexinc/devboot/internal/selector"
)

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = map[string]string{
	"catalog.online":      "online",
	"catalog.force_local": "force-local",
	"profiles.reset":      "reset-profiles",
}

// session holds everything one command invocation is wired from. It is
// built once, after flag parsing, and closed when the command returns.
type session struct {
	cfg        *config.Config
	out        io.Writer
	catalogs   *catalog.Loader
	manager    *pkgmgr.Manager
	installer  *pkgmgr.Installer
	shells     *profile.Configurator
	journal    *lazyJournal
	dispatcher *app.Dispatcher
}

// loadConfig folds the config file, environment and flags of cmd into one
// Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags(), flagBindings); err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			return nil, devbooterrors.ConfigParseError(loadErr.Path, err)
		}
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Console = true
	}
	return cfg, nil
}

// newSession loads the configuration, starts the session log and wires the
// dispatcher. The network is probed once; when it does not answer, the
// session runs in local mode.
func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	env, err := profile.NewEnv(cfg.Profiles)
	if err != nil {
		return nil, err
	}

	if err := logging.InitGlobal(&logging.Config{
		Level:       logging.ParseLevel(cfg.Logging.Level),
		LogDir:      cfg.Logging.Dir,
		MaxLogFiles: cfg.Logging.MaxFiles,
		MaxLogAge:   cfg.Logging.MaxAge,
		Console:     cfg.Logging.Console,
	}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "[WARN] Session log unavailable: %v\n", err)
	}

	out := cmd.OutOrStdout()
	client := network.NewClient(cfg.Network.ProbeTimeout, cfg.Catalog.FetchTimeout)

	if cfg.Catalog.UseRemote() && !client.Reachable(ctx, cfg.Network.ProbeURL) {
		fmt.Fprintln(out, "[WARN] Network unavailable, falling back to local catalogs")
		logging.Warn("network probe failed, switching to local mode", "url", cfg.Network.ProbeURL)
		cfg.Catalog.Online = false
	}

	s := &session{
		cfg:       cfg,
		out:       out,
		manager:   pkgmgr.New(cfg.PackageManager),
		installer: pkgmgr.NewInstaller(cfg.PackageManager),
	}
	// Warnings and profile writer lines follow the dispatcher's Out, which
	// the dashboard redirects into its log.
	transcript := transcriptWriter{s}

	catalogs := catalog.NewLoader(cfg.Catalog, client)
	catalogs.Warn = func(msg string) {
		fmt.Fprintf(transcript, "[WARN] %s\n", msg)
	}

	shells := profile.NewConfigurator(
		profile.NewWriter(transcript),
		&profile.DotfileSource{
			Reader:     catalogs,
			RemoteBase: cfg.Profiles.RemoteBase,
			LocalDir:   cfg.Profiles.SourceDir,
		},
		env,
	)

	s.catalogs = catalogs
	s.shells = shells

	d := app.NewDispatcher(cfg.PackageManager.Command, s.manager, s.installer, shells, catalogs)
	d.Out = out
	d.OnProgress = printLines(out)
	if cfg.Journal.Enabled {
		s.journal = &lazyJournal{path: cfg.Journal.Path}
		d.Journal = s.journal
	}
	s.dispatcher = d

	logging.Info("session started",
		"run_id", d.RunID,
		"command", cmd.Name(),
		"online", s.online(),
		"data_dir", cfg.DataDir,
	)
	return s, nil
}

// online reports whether the session fetches remote documents.
func (s *session) online() bool {
	return s.cfg.Catalog.UseRemote()
}

// close releases the journal and the session log.
func (s *session) close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			logging.Warn("closing journal failed", "error", err)
		}
	}
	logging.Info("session finished", "run_id", s.dispatcher.RunID)
	_ = logging.CloseGlobal()
}

// transcriptWriter writes to the session dispatcher's current Out.
type transcriptWriter struct {
	s *session
}

func (w transcriptWriter) Write(p []byte) (int, error) {
	if w.s.dispatcher == nil || w.s.dispatcher.Out == nil {
		return len(p), nil
	}
	return w.s.dispatcher.Out.Write(p)
}

// printLines echoes the raw package manager output of a batch.
func printLines(out io.Writer) app.ProgressFunc {
	return func(p app.Progress) {
		if p.Line != "" {
			fmt.Fprintf(out, "    %s\n", p.Line)
		}
	}
}

// newSelector picks the selection surface for the command's streams. The
// interactive selector needs real terminals; anything else gets the
// numbered one.
func newSelector(cmd *cobra.Command, lines *selector.LineReader) selector.Selector {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)
	if inOK && outOK {
		return selector.Detect(in, out, lines)
	}
	return selector.NewNumbered(lines, cmd.OutOrStdout())
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// lazyJournal opens the journal on the first recorded outcome, so commands
// that install nothing never create the database.
type lazyJournal struct {
	path string

	mu  sync.Mutex
	j   *journal.Journal
	err error
}

func (l *lazyJournal) open() (*journal.Journal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.j == nil && l.err == nil {
		l.j, l.err = journal.Open(l.path)
		if l.err != nil {
			logging.Warn("journal unavailable", "path", l.path, "error", l.err)
		}
	}
	return l.j, l.err
}

// Record implements app.Recorder.
func (l *lazyJournal) Record(ctx context.Context, e journal.Entry) error {
	j, err := l.open()
	if err != nil {
		return err
	}
	return j.Record(ctx, e)
}

// Close closes the journal if it was opened.
func (l *lazyJournal) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.j == nil {
		return nil
	}
	err := l.j.Close()
	l.j = nil
	return err
}

// finishAction turns a user interrupt into an informational message; the
// command still exits successfully.
func finishAction(cmd *cobra.Command, err error) error {
	if err != nil && (devbooterrors.IsCancelled(err) || errors.Is(err, context.Canceled)) {
		fmt.Fprintln(cmd.OutOrStdout(), "\n[INFO] Operation cancelled by user")
		logging.Info("command cancelled", "command", cmd.Name())
		return nil
	}
	return err
}
