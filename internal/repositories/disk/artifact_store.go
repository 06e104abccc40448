// Package disk stores synthesized audio artifacts as flat files. The
// artifact id doubles as the filename.
package disk

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrBadArtifactID = errors.New("invalid artifact id")

type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ArtifactStore{dir: dir}, nil
}

func (s *ArtifactStore) Dir() string { return s.dir }

func (s *ArtifactStore) path(id string) (string, error) {
	// ids are generated uuids, but never trust a fetch-path id
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", ErrBadArtifactID
	}
	return filepath.Join(s.dir, id), nil
}

func (s *ArtifactStore) Save(id string, data []byte) (string, error) {
	p, err := s.path(id)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func (s *ArtifactStore) Read(id string) ([]byte, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *ArtifactStore) Remove(id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// SweepOlderThan removes artifact files whose mtime is older than
// maxAge. Used at startup to clear files whose deletion timers died
// with a previous process.
func (s *ArtifactStore) SweepOlderThan(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
