package fs

import (
	"errors"
	"os"
	"path/filepath"

	reports "storewatch/internal/reports/domain"
)

// ArtifactStore keeps report artifacts as files under a storage root.
type ArtifactStore struct {
	root string
}

// NewArtifactStore constructs a store rooted at root.
func NewArtifactStore(root string) (*ArtifactStore, error) {
	if root == "" {
		return nil, errors.New("artifact store: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &ArtifactStore{root: root}, nil
}

// Put durably writes the artifact and returns its location. The write goes
// through a temp file and rename, so readers never observe a partial
// artifact.
func (s *ArtifactStore) Put(id string, data []byte) (string, error) {
	if s == nil || s.root == "" {
		return "", errors.New("artifact store: not initialized")
	}
	if id == "" {
		return "", reports.ErrEmptyReportID
	}

	final := filepath.Join(s.root, id+".csv")
	tmp, err := os.CreateTemp(s.root, id+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return final, nil
}

// Get returns the artifact bytes for a report id.
func (s *ArtifactStore) Get(id string) ([]byte, error) {
	if s == nil || s.root == "" {
		return nil, errors.New("artifact store: not initialized")
	}
	if id == "" {
		return nil, reports.ErrEmptyReportID
	}
	data, err := os.ReadFile(filepath.Join(s.root, id+".csv"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, reports.ErrArtifactNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
