package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSource reads the pipeline's JSON documents from a local directory.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Name() string { return "file:" + s.dir }

func (s *FileSource) Fetch(_ context.Context) (*Snapshot, error) {
	kpis, err := os.ReadFile(filepath.Join(s.dir, KPIsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	dashboard, err := os.ReadFile(filepath.Join(s.dir, DashboardFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	return Decode(s.Name(), kpis, dashboard)
}
