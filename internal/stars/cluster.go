// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stars evaluates and repairs asterisk bold markup in a single line
// of Markdown.
//
// A line is scanned into clusters of one or two asterisks. Each cluster is
// classified by the characters around it (leading, lefty, righty, floating,
// tight) and the gaps between clusters are measured. Confidence scores the
// clusters from 0 to 100; Fix tries one repair pass and keeps it only when
// the score improves.
package stars

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// rcScheme is a resource container link whose asterisk is literal text.
const rcScheme = "rc://*/"

var (
	// clusterPattern matches one or two stars, possibly surrounded by space.
	clusterPattern = regexp.MustCompile(` *\*{1,2} ?`)

	// blockquotePattern matches a line whose first star follows only
	// block-quote markers and spaces.
	blockquotePattern = regexp.MustCompile(`^[> ]*\*`)
)

// Cluster is one run of asterisks found in a line, with its surrounding
// spaces. Offsets and distances are counted in runes.
type Cluster struct {
	// Text is the matched substring, including any adjacent spaces.
	Text string `json:"text"`
	// Stars is the number of asterisks in Text (1 or 2).
	Stars int `json:"stars"`
	// Start and End delimit Text within the line.
	Start int `json:"start"`
	End   int `json:"end"`

	// Leading is set for a cluster at the start of the line or directly
	// after a block-quote prefix.
	Leading bool `json:"leading"`
	// Lefty clusters look like an opening delimiter: space (or line start)
	// on the left, text on the right.
	Lefty bool `json:"lefty"`
	// Righty clusters look like a closing delimiter.
	Righty bool `json:"righty"`
	// Floating clusters have space on both sides.
	Floating bool `json:"floating"`
	// Tight clusters touch text on both sides.
	Tight bool `json:"tight"`

	// LeftDist is the gap to the previous cluster, or to the line start.
	LeftDist int `json:"left_dist"`
	// RightDist is the gap to the next cluster, or to the line end.
	RightDist int `json:"right_dist"`

	byteStart int
	byteEnd   int
}

// Analyze returns the clusters of line in left-to-right order. A line
// without asterisks yields an empty list.
func Analyze(line string) []Cluster {
	var clusters []Cluster

	var preceding byte
	if blockquotePattern.MatchString(line) {
		preceding = '>'
	}

	prevEnd := 0
	for _, m := range clusterPattern.FindAllStringIndex(line, -1) {
		start, end := m[0], m[1]
		if !isRCStar(line, prevEnd, start) {
			clusters = append(clusters, newCluster(line, start, end,
				start == prevEnd && preceding == ' ', preceding == '>'))
		}
		preceding = line[end-1]
		prevEnd = end
	}

	setDistances(clusters, utf8.RuneCountInString(line))
	return clusters
}

// isRCStar reports whether the match at start is the asterisk of the first
// rc://*/ link after from.
func isRCStar(line string, from, start int) bool {
	idx := strings.Index(line[from:], rcScheme)
	return idx >= 0 && start-from == idx+len("rc://")
}

func newCluster(line string, start, end int, spaceLeft, afterQuote bool) Cluster {
	text := line[start:end]
	first, last := text[0], text[len(text)-1]
	pos := utf8.RuneCountInString(line[:start])

	return Cluster{
		Text:      text,
		Stars:     strings.Count(text, "*"),
		Start:     pos,
		End:       pos + len(text),
		Leading:   pos == 0 || afterQuote,
		Lefty:     (first == ' ' || pos == 0 || spaceLeft) && last == '*',
		Righty:    first == '*' && last == ' ' && pos > 0,
		Floating:  first == ' ' && last == ' ' && pos > 0,
		Tight:     first == '*' && last == '*' && pos > 0,
		byteStart: start,
		byteEnd:   end,
	}
}

// setDistances fills LeftDist and RightDist in place. lineLen is the rune
// length of the analyzed line.
func setDistances(clusters []Cluster, lineLen int) {
	for i := range clusters {
		c := &clusters[i]
		if i == 0 {
			c.LeftDist = c.Start
		} else {
			c.LeftDist = c.Start - clusters[i-1].End
		}
		if i+1 < len(clusters) {
			c.RightDist = clusters[i+1].Start - c.End
		} else {
			c.RightDist = lineLen - c.End
		}
	}
}

// countStars returns the number of clusters with exactly n stars.
func countStars(clusters []Cluster, n int) int {
	count := 0
	for _, c := range clusters {
		if c.Stars == n {
			count++
		}
	}
	return count
}
