// Package fsys is the narrow filesystem read surface the adapter probes at
// query time. Probes are computed fresh on every call; nothing is cached
// between queries.
package fsys

import (
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// FS is everything the adapter needs from a filesystem. Failures on
// ListChildren are the caller's to degrade; Exists folds every failure into
// "not there".
type FS interface {
	// Exists probes whether the path currently exists.
	Exists(path string) bool
	// ListChildren lists the direct entries of a directory as full paths.
	ListChildren(path string) ([]string, error)
	// Basename returns the final path segment.
	Basename(path string) string
	// Extension returns a filename's suffix without the dot, reporting
	// whether one exists. Dotfiles such as ".profile" have no extension.
	Extension(path string) (string, bool)
}

type billyFS struct {
	fs billy.Filesystem
}

// New wraps a billy filesystem. Tests pass memfs.New().
func New(fs billy.Filesystem) FS {
	return &billyFS{fs: fs}
}

// NewOS returns an FS over the host filesystem, addressed by absolute paths.
func NewOS() FS {
	return &billyFS{fs: osfs.New("/")}
}

func (b *billyFS) Exists(path string) bool {
	_, err := b.fs.Stat(path)
	return err == nil
}

func (b *billyFS) ListChildren(path string) ([]string, error) {
	infos, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	children := make([]string, len(infos))
	for i, info := range infos {
		children[i] = filepath.Join(path, info.Name())
	}
	return children, nil
}

func (b *billyFS) Basename(path string) string {
	return filepath.Base(path)
}

func (b *billyFS) Extension(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return "", false
	}
	return base[idx+1:], true
}
