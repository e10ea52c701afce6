// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stars

import "strings"

// leadingPairWindow is how close a double-star cluster must follow a leading
// single star for the single to be promoted to an opener.
const leadingPairWindow = 35

// Fix attempts to correct suspect bold markup in line. Lines scoring at or
// above FixThreshold are returned unchanged, as is any repair that does not
// strictly improve the score.
func Fix(line string) string {
	return fixAnalyzed(line, Analyze(line), Analyze)
}

// fixAnalyzed runs Fix for a line whose clusters are already known. analyze
// re-scans candidate strings.
func fixAnalyzed(line string, clusters []Cluster, analyze func(string) []Cluster) string {
	conf := score(clusters)
	if conf >= FixThreshold {
		return line
	}
	candidate := reinterpret(line, clusters)
	if candidate != line && score(analyze(candidate)) > conf {
		return candidate
	}
	return line
}

// reinterpret applies each repair pass in turn and returns the rewritten
// line. Every pass works on a fresh analysis of the previous result.
func reinterpret(line string, clusters []Cluster) string {
	if len(clusters) == 0 {
		return line
	}

	if merged := mergeAdjacentSingles(line, clusters); merged != line {
		line = merged
		clusters = Analyze(line)
	}

	if resolved := resolveLeadingSingle(line, clusters); resolved != line {
		line = resolved
		clusters = Analyze(line)
	}

	singles := countStars(clusters, 1)
	if shouldPromote(clusters, singles) {
		if promoted := promoteSingles(line, clusters); promoted != line {
			line = promoted
			clusters = Analyze(line)
		}
	}

	return removeStranded(line, clusters, singles)
}

// mergeAdjacentSingles joins two touching single-star clusters into one
// double-star cluster. The replacement keeps the line length unchanged.
func mergeAdjacentSingles(line string, clusters []Cluster) string {
	out := line
	for i := 0; i+1 < len(clusters); i++ {
		a, b := clusters[i], clusters[i+1]
		if a.Stars != 1 || b.Stars != 1 || a.RightDist != 0 {
			continue
		}
		length := len(a.Text) + len(b.Text)
		replacement := "** "
		if length != 3 {
			replacement = " **" + strings.Repeat(" ", max(0, length-3))
		}
		out = out[:a.byteStart] + replacement + out[b.byteEnd:]
		i++
	}
	return out
}

// resolveLeadingSingle handles a single opening star at the start of the
// line. Alone, it is split from the text with a space. Followed closely by a
// double-star cluster, it gains a second star.
func resolveLeadingSingle(line string, clusters []Cluster) string {
	first := clusters[0]
	if !first.Leading || first.Stars != 1 || !first.Lefty {
		return line
	}

	var insert string
	switch {
	case len(clusters) == 1:
		insert = " "
	case clusters[1].Stars >= 2 && clusters[1].Start-first.End < leadingPairWindow:
		insert = "*"
	default:
		return line
	}

	pos := strings.IndexByte(line, '*') + 1
	return line[:pos] + insert + line[pos:]
}

// shouldPromote reports whether single-star clusters look like bold markers
// that lost a star. That holds when an odd number of singles sits among
// doubles, or when the line pairs singles only and none is a leading
// bullet.
func shouldPromote(clusters []Cluster, singles int) bool {
	if singles == 0 {
		return false
	}
	doubles := countStars(clusters, 2)
	if singles%2 != 0 {
		return doubles > 0
	}
	first := clusters[0]
	return doubles == 0 && !(first.Stars == 1 && first.Leading)
}

// promoteSingles adds a second star to every non-leading single cluster.
func promoteSingles(line string, clusters []Cluster) string {
	var b strings.Builder
	pos := 0
	for _, c := range clusters {
		text := c.Text
		if c.Stars == 1 && !c.Leading {
			at := strings.IndexByte(text, '*')
			text = text[:at] + "*" + text[at:]
		}
		b.WriteString(line[pos:c.byteStart])
		b.WriteString(text)
		pos = c.byteEnd
	}
	b.WriteString(line[pos:])
	return b.String()
}

// removeStranded deletes the cluster most likely to have no partner when
// the clusters cannot all pair up. singles is the single-star count seen
// before promotion.
func removeStranded(line string, clusters []Cluster, singles int) string {
	n := len(clusters)
	if n == 0 {
		return line
	}

	skip := 0
	if first := clusters[0]; first.Stars == 1 && first.Leading && singles%2 != 0 {
		skip = 1
	}
	if (n-skip)%2 == 0 {
		return line
	}

	first, last := strandedBySpacing(clusters[skip:])
	stranded := first + skip
	if first != last {
		stranded = strandedByLength(clusters[first+skip:]) + first + skip
	}
	c := clusters[stranded]

	pos1 := c.byteStart
	if c.Lefty && !c.Leading {
		pos1++
	}
	pos2 := c.byteEnd
	if c.Righty || c.Floating {
		pos2--
	}

	gap := ""
	if c.Tight && pos2 < len(line) && pos1 > 0 &&
		strings.IndexByte(".,;?!\"", line[pos2]) < 0 &&
		strings.IndexByte("\"'", line[pos1-1]) < 0 {
		gap = " "
	}
	return line[:pos1] + gap + line[pos2:]
}

// strandedBySpacing walks inward from both ends of clusters while they form
// well-spaced opener/closer pairs. It returns the index of the first and
// last clusters that break the pattern; equal indexes identify a single
// suspect.
func strandedBySpacing(clusters []Cluster) (int, int) {
	n := len(clusters)
	if clusters[0].RightDist == 0 {
		return 0, 0
	}
	if clusters[n-1].LeftDist == 0 {
		return n - 1, n - 1
	}

	i := 0
	for i+1 < n && clusters[i].Lefty && clusters[i+1].Righty && clusters[i].RightDist > 0 {
		i += 2
	}
	j := n - 1
	for j-1 >= 0 && clusters[j-1].Lefty && clusters[j].Righty && clusters[j].LeftDist > 0 {
		j -= 2
	}
	return i, j
}

// strandedByLength tries removing each cluster at an even index and returns
// the one whose removal leaves the openers closest to their text. Ties go to
// the later cluster.
//
// TODO: weigh lefty/righty orientation as well as distance once a
// regression corpus is available to tune it against.
func strandedByLength(clusters []Cluster) int {
	stranded, best := 0, 0
	for i := 0; i < len(clusters); i += 2 {
		sum, k := 0, 0
		for j, c := range clusters {
			if j == i {
				continue
			}
			if k%2 == 0 {
				sum += c.RightDist
			}
			k++
		}
		if i == 0 || sum <= best {
			stranded, best = i, sum
		}
	}
	return stranded
}
