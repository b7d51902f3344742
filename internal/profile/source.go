package profile

import (
	"context"
	"path/filepath"
	"strings"

	devbooterrors "github.com/wexinc/devboot/internal/errors"
)

// Source provides the bundled dotfiles by relative path ("bash/main.sh").
type Source interface {
	ReadDotfile(ctx context.Context, rel string) (string, error)
}

// DocumentReader reads a document from a URL or, failing that, a local
// path. *catalog.Loader implements it with the online/local rules.
type DocumentReader interface {
	Read(ctx context.Context, url, path string) ([]byte, string, error)
}

// DotfileSource resolves dotfiles below RemoteBase or LocalDir through a
// DocumentReader.
type DotfileSource struct {
	Reader     DocumentReader
	RemoteBase string
	LocalDir   string
}

// ReadDotfile implements Source.
func (s *DotfileSource) ReadDotfile(ctx context.Context, rel string) (string, error) {
	url := strings.TrimRight(s.RemoteBase, "/") + "/" + rel
	path := filepath.Join(s.LocalDir, filepath.FromSlash(rel))

	data, _, err := s.Reader.Read(ctx, url, path)
	if err != nil {
		if devbooterrors.IsCancelled(err) {
			return "", err
		}
		return "", devbooterrors.Wrap(err, devbooterrors.ErrProfile, "dotfile source unavailable: "+rel)
	}
	return string(data), nil
}
