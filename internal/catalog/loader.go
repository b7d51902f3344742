package catalog

import (
	"context"
	"os"

	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

// Fetcher retrieves a remote document. *network.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader reads catalogs from the remote base or the local files according
// to the catalog settings.
type Loader struct {
	Config  config.CatalogConfig
	Fetcher Fetcher
	// Warn receives user-facing warnings (remote fallback, skipped records).
	// Nil discards them; they are always logged.
	Warn func(msg string)
}

// NewLoader creates a catalog loader.
func NewLoader(cfg config.CatalogConfig, fetcher Fetcher) *Loader {
	return &Loader{Config: cfg, Fetcher: fetcher}
}

// LoadApps loads and decodes the application catalog.
func (l *Loader) LoadApps(ctx context.Context) (*AppCatalog, error) {
	cat, err := load(ctx, l, l.Config.AppsURL(), l.Config.AppsFile, ParseApps)
	if err != nil {
		return nil, err
	}
	l.report(cat.Warnings)
	logging.Info("loaded app catalog", "source", cat.Source, "entries", len(cat.Entries))
	return cat, nil
}

// LoadShells loads and decodes the shell catalog.
func (l *Loader) LoadShells(ctx context.Context) (*ShellCatalog, error) {
	cat, err := load(ctx, l, l.Config.ShellsURL(), l.Config.ShellsFile, ParseShells)
	if err != nil {
		return nil, err
	}
	l.report(cat.Warnings)
	logging.Info("loaded shell catalog", "source", cat.Source, "version", cat.Version, "shells", len(cat.Shells))
	return cat, nil
}

// load reads a catalog document and decodes it with parse. A remote document
// that does not decode is treated like a failed fetch and the local file is
// used instead.
func load[T any](ctx context.Context, l *Loader, url, path string, parse func([]byte, string) (T, error)) (T, error) {
	var zero T
	data, source, err := l.Read(ctx, url, path)
	if err != nil {
		return zero, err
	}
	cat, err := parse(data, source)
	if err == nil || source != url {
		return cat, err
	}

	l.warn("remote document unusable (" + err.Error() + "), falling back to local")
	if data, err = l.readLocal(path); err != nil {
		return zero, err
	}
	return parse(data, path)
}

// Read returns the document at url when remote loading is enabled and the
// fetch succeeds, and the local file at path otherwise. It returns the
// source the bytes came from. A failed fetch is a warning; a missing local
// file is fatal.
func (l *Loader) Read(ctx context.Context, url, path string) ([]byte, string, error) {
	if l.Config.UseRemote() && l.Fetcher != nil {
		data, err := l.Fetcher.Fetch(ctx, url)
		if err == nil {
			logging.Debug("loaded document from remote", "url", url)
			return data, url, nil
		}
		if devbooterrors.IsCancelled(err) {
			return nil, "", err
		}
		l.warn("remote fetch failed (" + err.Error() + "), falling back to local")
	}

	data, err := l.readLocal(path)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

func (l *Loader) readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, devbooterrors.CatalogNotFound(path)
		}
		return nil, devbooterrors.Wrap(err, devbooterrors.ErrCatalog, "failed to read "+path)
	}
	logging.Debug("loaded document from local file", "path", path)
	return data, nil
}

func (l *Loader) report(warnings []string) {
	for _, w := range warnings {
		l.warn(w)
	}
}

func (l *Loader) warn(msg string) {
	logging.Warn(msg)
	if l.Warn != nil {
		l.Warn(msg)
	}
}
