// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/boldfix/pkg/types"
)

// exportLimit bounds an unfiltered export.
const exportLimit = 100000

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Files []FileSummary      `json:"files" yaml:"files"`
	Lines []types.LineReport `json:"lines" yaml:"lines"`
}

// ExportYAML writes the history matching opts to path. An empty path
// writes export.yaml in the history directory. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(path, "export.yaml", data)
}

// ExportJSON writes the history matching opts to path. An empty path
// writes export.json in the history directory. It returns the path written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(path, "export.json", data)
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (Export, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	files, err := s.Files(ctx)
	if err != nil {
		return Export{}, err
	}
	lines, err := s.Query(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	return Export{Files: files, Lines: lines}, nil
}

func (s *Store) writeExport(path, defaultName string, data []byte) (string, error) {
	if path == "" {
		path = filepath.Join(s.dir, defaultName)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
