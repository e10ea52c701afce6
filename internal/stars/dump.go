// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stars

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable analysis of line to w: one row per cluster
// with its flags, position and distances, then the confidence. Nothing is
// written for a line without clusters.
func Dump(w io.Writer, line string) error {
	return dump(w, line, Analyze(line))
}

func dump(w io.Writer, line string, clusters []Cluster) error {
	if len(clusters) == 0 || w == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  has %d clusters\n", line, len(clusters))
	for _, c := range clusters {
		writeCluster(&b, c)
	}
	fmt.Fprintf(&b, "Confidence: %d\n\n", clamp(score(clusters)))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCluster(b *strings.Builder, c Cluster) {
	fmt.Fprintf(b, "%s: nstars=%d, ", c.Text, c.Stars)
	for _, flag := range []struct {
		set  bool
		name string
	}{
		{c.Leading, "leading"},
		{c.Lefty, "lefty"},
		{c.Righty, "righty"},
		{c.Floating, "floating"},
		{c.Tight, "tight"},
	} {
		if flag.set {
			fmt.Fprintf(b, "%s, ", flag.name)
		}
	}
	fmt.Fprintf(b, "pos %d:%d, ldist=%d, rdist=%d\n", c.Start, c.End, c.LeftDist, c.RightDist)
}
