package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Config controls where the Markdown service discovers files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
}

// Service ties filesystem discovery to the importer.
type Service struct {
	cfg      Config
	loader   *Loader
	importer *Importer
}

// NewService constructs a Service rooted at cfg.BasePath. importer may be nil
// when only loading is needed.
func NewService(cfg Config, importer *Importer) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		importer: importer,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
	}, nil
}

// Loader exposes the underlying loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// ImportDirectory imports every matching file under dir ("" means the base
// path).
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	if s.importer == nil {
		return nil, ErrImporterRequired
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	docs, err := s.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	return s.importer.Import(ctx, docs, opts)
}

// ImportFiles imports the given paths. Files removed since the change was
// observed are skipped.
func (s *Service) ImportFiles(ctx context.Context, paths []string, opts ImportOptions) (*ImportResult, error) {
	if s.importer == nil {
		return nil, ErrImporterRequired
	}
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		if !s.loader.Matches(path) {
			continue
		}
		doc, err := s.loader.LoadFile(ctx, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return s.importer.Import(ctx, docs, opts)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
