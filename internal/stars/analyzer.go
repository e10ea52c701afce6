// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stars

import (
	"fmt"
	"io"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize remembers only the most recent line, which is enough
// for the usual score, fix, dump sequence on one line.
const DefaultCacheSize = 1

// Analyzer scores, fixes and dumps lines while remembering recent
// analyses. It is safe for concurrent use.
type Analyzer struct {
	cache *lru.Cache[string, []Cluster]
}

// NewAnalyzer creates an Analyzer that caches up to size analyses. A size
// of zero or less uses DefaultCacheSize.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []Cluster](size)
	if err != nil {
		return nil, fmt.Errorf("creating analysis cache: %w", err)
	}
	return &Analyzer{cache: cache}, nil
}

// Clusters returns the analysis of line. The returned slice is a copy.
func (a *Analyzer) Clusters(line string) []Cluster {
	return slices.Clone(a.analyze(line))
}

// Confidence is the cached equivalent of the package-level Confidence.
func (a *Analyzer) Confidence(line string) int {
	return clamp(score(a.analyze(line)))
}

// Fix is the cached equivalent of the package-level Fix.
func (a *Analyzer) Fix(line string) string {
	return fixAnalyzed(line, a.analyze(line), a.analyze)
}

// Dump is the cached equivalent of the package-level Dump.
func (a *Analyzer) Dump(w io.Writer, line string) error {
	return dump(w, line, a.analyze(line))
}

func (a *Analyzer) analyze(line string) []Cluster {
	if clusters, ok := a.cache.Get(line); ok {
		return clusters
	}
	clusters := Analyze(line)
	a.cache.Add(line, clusters)
	return clusters
}
