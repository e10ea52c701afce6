// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/boldfix/pkg/types"
)

// QueryOptions filters recorded line reports.
type QueryOptions struct {
	// Path keeps lines whose file path contains this substring.
	Path string
	// MaxConfidence keeps lines whose confidence after fixing is at most
	// this value. Nil means no filter.
	MaxConfidence *int
	// ChangedOnly keeps lines the fixer rewrote.
	ChangedOnly bool
	// MaxResults limits the number of rows. Zero uses the store default.
	MaxResults int
}

// Query returns recorded line reports matching opts, lowest confidence
// first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.LineReport, error) {
	var (
		where []string
		args  []any
	)
	if opts.Path != "" {
		where = append(where, "path LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(opts.Path)+"%")
	}
	if opts.MaxConfidence != nil {
		where = append(where, "conf_after <= ?")
		args = append(args, *opts.MaxConfidence)
	}
	if opts.ChangedOnly {
		where = append(where, "original <> fixed")
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var b strings.Builder
	b.WriteString(`SELECT path, line, original, fixed, conf_before, conf_after FROM lines`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY conf_after, path, line LIMIT ?")
	args = append(args, limit)

	var lines []types.LineReport
	if err := s.db.SelectContext(ctx, &lines, b.String(), args...); err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	return lines, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
